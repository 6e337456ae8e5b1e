package problemgen

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
)

// MathCheckValidator recomputes the answer from the question text when the
// question is bare arithmetic such as "What is 6 × 7?" or "1/4 + 1/2".
// Word problems are not computable and pass.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q *Question, _ GenerateInput) *ValidationError {
	computed, err := computeAnswer(q.Text, q.AnswerType)
	if err != nil {
		return nil
	}
	claimed, err := parseNumber(q.Answer)
	if err != nil || computed.Cmp(claimed) != 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %s but the model claimed %q", computed.RatString(), q.Answer),
			Retryable: true,
		}
	}
	return nil
}

var (
	// "a/b op c/d"
	fractionExprRe = regexp.MustCompile(`(-?\d+)\s*/\s*(\d+)\s*([+\-*×÷])\s*(-?\d+)\s*/\s*(\d+)`)

	// "x op y" for +, -, * and × over integers or decimals.
	numberExprRe = regexp.MustCompile(`(?:^|[^\d/])(-?\d+(?:\.\d+)?)\s*([+\-*×])\s*(-?\d+(?:\.\d+)?)(?:[^\d/]|$)`)

	// Division needs spaces around "/" so 144 / 12 is not read as a fraction.
	divisionExprRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+[/÷]\s+(-?\d+(?:\.\d+)?)`)
)

var errNotComputable = errors.New("not computable")

// computeAnswer finds the first arithmetic expression in text and evaluates
// it exactly. Integer questions truncate a non-whole quotient the way a
// child answers "17 ÷ 5" with 3.
func computeAnswer(text string, answerType AnswerType) (*big.Rat, error) {
	var a, b *big.Rat
	var op string

	if m := fractionExprRe.FindStringSubmatch(text); m != nil && answerType != AnswerTypeDecimal {
		var err error
		if a, err = parseNumber(m[1] + "/" + m[2]); err != nil {
			return nil, err
		}
		if b, err = parseNumber(m[4] + "/" + m[5]); err != nil {
			return nil, err
		}
		op = m[3]
	} else if answerType == AnswerTypeFraction {
		return nil, errNotComputable
	} else if m := numberExprRe.FindStringSubmatch(text); m != nil {
		a, b, op = mustRat(m[1]), mustRat(m[3]), m[2]
	} else if m := divisionExprRe.FindStringSubmatch(text); m != nil {
		a, b, op = mustRat(m[1]), mustRat(m[2]), "/"
	} else {
		return nil, errNotComputable
	}

	r, err := applyOp(a, op, b)
	if err != nil {
		return nil, err
	}
	if answerType == AnswerTypeInteger && !r.IsInt() {
		q := new(big.Int).Quo(r.Num(), r.Denom())
		r.SetInt(q)
	}
	return r, nil
}

func applyOp(a *big.Rat, op string, b *big.Rat) (*big.Rat, error) {
	r := new(big.Rat)
	switch op {
	case "+":
		return r.Add(a, b), nil
	case "-":
		return r.Sub(a, b), nil
	case "*", "×":
		return r.Mul(a, b), nil
	case "/", "÷":
		if b.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return r.Quo(a, b), nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", op)
	}
}

// mustRat parses a string the expression regexps already matched as a number.
func mustRat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("problemgen: unparseable number " + s)
	}
	return r
}
