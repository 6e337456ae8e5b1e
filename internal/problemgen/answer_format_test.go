package problemgen

import "testing"

func TestAnswerFormat_Integer(t *testing.T) {
	v := &AnswerFormatValidator{}

	valid := []string{"42", "0", "-5", "1000"}
	for _, a := range valid {
		q := validQuestion()
		q.AnswerType = AnswerTypeInteger
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err != nil {
			t.Errorf("expected %q to be valid integer, got: %v", a, err)
		}
	}

	invalid := []string{"3.5", "abc", "3/4", "007", ""}
	for _, a := range invalid {
		q := validQuestion()
		q.AnswerType = AnswerTypeInteger
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err == nil {
			t.Errorf("expected %q to be invalid integer", a)
		}
	}
}

func TestAnswerFormat_Decimal(t *testing.T) {
	v := &AnswerFormatValidator{}

	valid := []string{"3.5", "0.75", "-2.1", "0", "100"}
	for _, a := range valid {
		q := validQuestion()
		q.AnswerType = AnswerTypeDecimal
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err != nil {
			t.Errorf("expected %q to be valid decimal, got: %v", a, err)
		}
	}

	invalid := []string{"abc", "3.50"}
	for _, a := range invalid {
		q := validQuestion()
		q.AnswerType = AnswerTypeDecimal
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err == nil {
			t.Errorf("expected %q to be invalid decimal", a)
		}
	}
}

func TestAnswerFormat_Fraction(t *testing.T) {
	v := &AnswerFormatValidator{}

	valid := []string{"3/4", "1/2", "-7/3", "1/1"}
	for _, a := range valid {
		q := validQuestion()
		q.AnswerType = AnswerTypeFraction
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err != nil {
			t.Errorf("expected %q to be valid fraction, got: %v", a, err)
		}
	}

	invalid := []string{"3/0", "2/4", "abc", "3.5", ""}
	for _, a := range invalid {
		q := validQuestion()
		q.AnswerType = AnswerTypeFraction
		q.Answer = a
		if err := v.Validate(q, GenerateInput{}); err == nil {
			t.Errorf("expected %q to be invalid fraction", a)
		}
	}
}
