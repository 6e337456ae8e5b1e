package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/session"
)

type createRequest struct {
	Name  string `json:"name"`
	Grade int    `json:"grade"`
	Topic string `json:"topic"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type reflectionRequest struct {
	Reflection string `json:"reflection"`
	Emoji      string `json:"emoji"`
	Confidence int    `json:"confidence"`
}

type questionView struct {
	Number int    `json:"number"`
	Total  int    `json:"total"`
	Text   string `json:"text"`
	Topic  string `json:"topic"`
	Level  int    `json:"level"`
}

type recordView struct {
	Question        string `json:"question"`
	CanonicalAnswer string `json:"canonical_answer"`
	Correct         bool   `json:"correct"`
	Reflection      string `json:"reflection"`
	Emoji           string `json:"emoji,omitempty"`
	Emotion         string `json:"emotion"`
	Expression      string `json:"expression"`
	Confidence      int    `json:"confidence"`
}

type summaryView struct {
	Score             string       `json:"score"`
	Correct           int          `json:"correct"`
	Target            int          `json:"target"`
	DominantEmotion   string       `json:"dominant_emotion"`
	Expression        string       `json:"expression"`
	Narrative         string       `json:"narrative"`
	NarrativeFallback bool         `json:"narrative_fallback"`
	Level             int          `json:"level"`
	Records           []recordView `json:"records"`
}

type sessionView struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Grade      int           `json:"grade"`
	Topic      string        `json:"topic"`
	Returning  bool          `json:"returning"`
	Strategy   string        `json:"strategy"`
	Phase      string        `json:"phase"`
	Level      int           `json:"level"`
	Streak     int           `json:"streak"`
	Correct    int           `json:"correct"`
	Done       int           `json:"done"`
	Target     int           `json:"target"`
	Question   *questionView `json:"question,omitempty"`
	Summary    *summaryView  `json:"summary,omitempty"`
	LastAnswer string        `json:"last_answer,omitempty"`
}

type answerView struct {
	Correct         bool   `json:"correct"`
	CanonicalAnswer string `json:"canonical_answer"`
	Explanation     string `json:"explanation,omitempty"`
	Motivation      string `json:"motivation"`
	Level           int    `json:"level"`
	Streak          int    `json:"streak"`
}

type reflectionView struct {
	Emotion    string        `json:"emotion"`
	Expression string        `json:"expression"`
	Level      int           `json:"level"`
	Decision   string        `json:"decision,omitempty"`
	Sentiment  string        `json:"sentiment,omitempty"`
	Motivation string        `json:"motivation,omitempty"`
	Fallback   bool          `json:"fallback"`
	Next       *questionView `json:"next_question,omitempty"`
	Summary    *summaryView  `json:"summary,omitempty"`
}

func newQuestionView(st *session.State, q *problemgen.Question) *questionView {
	if q == nil {
		return nil
	}
	return &questionView{
		Number: st.Done() + 1,
		Total:  st.Target(),
		Text:   q.Text,
		Topic:  string(q.Topic),
		Level:  q.Level,
	}
}

func newSummaryView(s *reflection.Summary) *summaryView {
	if s == nil {
		return nil
	}
	v := &summaryView{
		Score:             s.ScoreString(),
		Correct:           s.Correct,
		Target:            s.Target,
		DominantEmotion:   string(s.DominantEmotion),
		Expression:        emotion.Expression(s.DominantEmotion),
		Narrative:         s.Narrative,
		NarrativeFallback: s.NarrativeFallback,
		Level:             s.Level,
		Records:           make([]recordView, len(s.Records)),
	}
	for i, r := range s.Records {
		v.Records[i] = recordView{
			Question:        r.Question,
			CanonicalAnswer: r.CanonicalAnswer,
			Correct:         r.WasCorrect,
			Reflection:      r.ReflectionText,
			Emoji:           r.Glyph,
			Emotion:         string(r.Emotion),
			Expression:      emotion.Expression(r.Emotion),
			Confidence:      r.Confidence,
		}
	}
	return v
}

func newSessionView(st *session.State) sessionView {
	v := sessionView{
		ID:        st.ID,
		Name:      st.Name,
		Grade:     st.Grade,
		Topic:     string(st.Topic),
		Returning: st.Returning,
		Strategy:  st.Strategy(),
		Phase:     st.Phase.String(),
		Level:     int(st.Level),
		Streak:    st.Streak,
		Correct:   st.Correct(),
		Done:      st.Done(),
		Target:    st.Target(),
		Summary:   newSummaryView(st.Summary),
	}
	if st.Phase == session.PhaseAnswer {
		v.Question = newQuestionView(st, st.Current)
	}
	if st.Phase == session.PhaseReflection {
		v.LastAnswer = st.LastAnswer
	}
	return v
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// createSession handles POST /api/v1/sessions.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := s.engine.Start(r.Context(), session.Setup{Name: req.Name, Grade: req.Grade, Topic: req.Topic})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sessions.Add(st)

	JSON(w, http.StatusCreated, newSessionView(st))
}

// getSession handles GET /api/v1/sessions/{id}.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var view sessionView
	err := s.sessions.With(chi.URLParam(r, "id"), func(st *session.State) error {
		view = newSessionView(st)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// answer handles POST /api/v1/sessions/{id}/answer.
func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var view answerView
	err := s.sessions.With(chi.URLParam(r, "id"), func(st *session.State) error {
		res, err := s.engine.Answer(r.Context(), st, req.Answer)
		if err != nil {
			return err
		}
		view = answerView{
			Correct:         res.Correct,
			CanonicalAnswer: res.CanonicalAnswer,
			Explanation:     res.Explanation,
			Motivation:      res.Motivation,
			Level:           int(res.Level),
			Streak:          res.Streak,
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// reflect handles POST /api/v1/sessions/{id}/reflection.
func (s *Server) reflect(w http.ResponseWriter, r *http.Request) {
	var req reflectionRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var view reflectionView
	err := s.sessions.With(chi.URLParam(r, "id"), func(st *session.State) error {
		res, err := s.engine.Reflect(r.Context(), st, session.Reflection{
			Text:       req.Reflection,
			Emoji:      req.Emoji,
			Confidence: req.Confidence,
		})
		if err != nil {
			return err
		}
		view = reflectionView{
			Emotion:    string(res.Emotion),
			Expression: emotion.Expression(res.Emotion),
			Level:      int(res.Level),
			Decision:   string(res.Adjustment.Decision),
			Sentiment:  string(res.Adjustment.Sentiment),
			Motivation: res.Adjustment.Motivation,
			Fallback:   res.Adjustment.Fallback,
			Next:       newQuestionView(st, res.Next),
			Summary:    newSummaryView(res.Summary),
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// nextQuestion handles POST /api/v1/sessions/{id}/next, retrying question
// generation after a failure.
func (s *Server) nextQuestion(w http.ResponseWriter, r *http.Request) {
	var view *questionView
	err := s.sessions.With(chi.URLParam(r, "id"), func(st *session.State) error {
		q, err := s.engine.NextQuestion(r.Context(), st)
		if err != nil {
			return err
		}
		view = newQuestionView(st, q)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// finalize handles POST /api/v1/sessions/{id}/finalize, retrying a summary
// that could not be persisted.
func (s *Server) finalize(w http.ResponseWriter, r *http.Request) {
	var view *summaryView
	err := s.sessions.With(chi.URLParam(r, "id"), func(st *session.State) error {
		summary, err := s.engine.Finalize(r.Context(), st)
		if err != nil {
			return err
		}
		view = newSummaryView(summary)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}
