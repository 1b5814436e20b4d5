// Package tutor implements the conversational turn pipeline for the Ember
// relay: prompt assembly, duplicate suppression, follow-up clarification,
// speech normalization, and audio synthesis.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/emberlabs/go-ember/internal/metrics"
	"github.com/emberlabs/go-ember/pkg/audio"
	"github.com/emberlabs/go-ember/pkg/inference"
	"github.com/emberlabs/go-ember/pkg/ocr"
	"github.com/emberlabs/go-ember/pkg/speech"
	"github.com/emberlabs/go-ember/pkg/tts"
)

// ErrNoMessage is returned when a turn request has no message text.
var ErrNoMessage = errors.New("tutor: no message provided")

// TurnRequest carries one student turn into the orchestrator.
type TurnRequest struct {
	// SessionID scopes conversation state; empty maps to the default session.
	SessionID string

	// Message is the student's typed text. Required.
	Message string

	// Image is an optional data-URL image of the student's work.
	Image string

	// Answers maps worksheet labels to student-entered values.
	Answers map[string]string

	// LastEditedProblem points at the problem the student touched last.
	LastEditedProblem string

	// Persona parameters; empty values fall back to package defaults.
	Subject  string
	Grade    string
	Standard string
}

// TutorReply is the outcome of one turn. Immutable once returned.
type TutorReply struct {
	// Text is the tutor's reply as shown to the student.
	Text string

	// SpokenText is Text after LaTeX-to-speech normalization.
	SpokenText string

	// AudioURL locates the synthesized audio artifact; empty when
	// synthesis was skipped or failed.
	AudioURL string
}

// Greeting is the outcome of the stateless greeting flow.
type Greeting struct {
	Text     string
	AudioURL string
}

// Config wires the orchestrator's collaborators.
type Config struct {
	LLM     inference.Provider
	TTS     tts.Provider
	OCR     ocr.Engine // optional; image text extraction is skipped when nil
	Audio   *audio.Store
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Model overrides the LLM provider's default model when non-empty.
	Model string
}

// Orchestrator sequences one student turn: assemble prompt, call the
// LLM, rephrase near-duplicates, clarify follow-ups, normalize for
// speech, synthesize audio, store the artifact.
//
// Provider failures are never fatal: a failed completion substitutes a
// fallback reply and a failed synthesis degrades to a reply without
// audio, so a response always reaches the student.
type Orchestrator struct {
	llm     inference.Provider
	tts     tts.Provider
	ocr     ocr.Engine
	audio   *audio.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	model   string
}

// New creates an orchestrator from cfg.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.LLM == nil {
		return nil, errors.New("tutor: LLM provider required")
	}
	if cfg.TTS == nil {
		return nil, errors.New("tutor: TTS provider required")
	}
	if cfg.Audio == nil {
		return nil, errors.New("tutor: audio store required")
	}
	if cfg.Metrics == nil {
		return nil, errors.New("tutor: metrics required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		llm:     cfg.LLM,
		tts:     cfg.TTS,
		ocr:     cfg.OCR,
		audio:   cfg.Audio,
		metrics: cfg.Metrics,
		logger:  logger.With("component", "tutor.orchestrator"),
		model:   cfg.Model,
	}, nil
}

// Respond runs one full tutoring turn against session.
func (o *Orchestrator) Respond(ctx context.Context, session *Session, req *TurnRequest) (*TutorReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrNoMessage
	}

	// Serialize the whole turn per session so interleaved requests can't
	// corrupt each other's history.
	session.Lock()
	defer session.Unlock()

	imageText := ""
	if req.Image != "" && o.ocr != nil {
		text, err := o.ocr.Recognize(ctx, req.Image)
		if err != nil {
			o.metrics.OCRFailures.Inc()
			o.logger.Warn("image text extraction failed", "session", session.ID, "error", err)
		} else {
			imageText = text
		}
	}

	session.AppendUser(req.Message)

	persona := PersonaPrompt(req.Subject, req.Grade, req.Standard)
	contextText := RenderContext(req.Answers, imageText, req.LastEditedProblem)
	messages := BuildTurnMessages(persona, contextText, req.Image, req.Message, session.History())

	text, err := o.complete(ctx, messages, turnTemperature)
	if err != nil || text == "" {
		if err != nil {
			o.metrics.ChatFailures.Inc()
			o.logger.Warn("chat completion failed, substituting fallback", "session", session.ID, "error", err)
		}
		o.metrics.FallbackReplies.Inc()
		text = fallbackReply
	}

	if session.Replies().Seen(text) {
		o.metrics.RephraseCalls.Inc()
		o.logger.Debug("rephrasing near-duplicate reply", "session", session.ID)

		rephrased, err := o.complete(ctx, []inference.Message{
			inference.NewSystemMessage(rephrasePrompt),
			inference.NewUserMessage(text),
		}, retryTemperature)
		if err != nil {
			o.metrics.ChatFailures.Inc()
			o.logger.Warn("rephrase failed, keeping original reply", "session", session.ID, "error", err)
		} else if rephrased != "" {
			text = rephrased
		}
	}

	if IsFollowUp(req.Message) {
		o.metrics.ClarifyCalls.Inc()
		o.logger.Debug("clarifying follow-up", "session", session.ID)

		clarified, err := o.complete(ctx, []inference.Message{
			inference.NewSystemMessage(clarifyPrompt),
			inference.NewUserMessage(fmt.Sprintf("Student said: %q\nTutor reply: %q", req.Message, text)),
		}, retryTemperature)
		if err != nil {
			o.metrics.ChatFailures.Inc()
			o.logger.Warn("clarify failed, keeping reply", "session", session.ID, "error", err)
		} else if clarified != "" {
			text = clarified
		}
	}

	session.AppendAssistant(text)
	session.Replies().Push(text)

	reply := &TutorReply{
		Text:       text,
		SpokenText: speech.ForSpeech(text),
	}
	reply.AudioURL = o.synthesize(ctx, reply.SpokenText, "ember-response")

	o.metrics.TurnsTotal.Inc()
	return reply, nil
}

// Greet runs the stateless greeting flow: one fixed prompt, one
// completion, the same speech tail as a turn. Independent of session
// history and the duplicate/follow-up logic.
func (o *Orchestrator) Greet(ctx context.Context) (*Greeting, error) {
	text, err := o.complete(ctx, []inference.Message{
		inference.NewSystemMessage(greetingPrompt),
	}, greetingTemperature)
	if err != nil || text == "" {
		if err != nil {
			o.metrics.ChatFailures.Inc()
			o.logger.Warn("greeting completion failed, substituting fallback", "error", err)
		}
		text = fallbackGreeting
	}

	greeting := &Greeting{Text: text}
	greeting.AudioURL = o.synthesize(ctx, speech.ForSpeech(text), "greeting")

	o.metrics.GreetingsTotal.Inc()
	return greeting, nil
}

// complete makes one chat-completion call and returns the trimmed reply.
func (o *Orchestrator) complete(ctx context.Context, messages []inference.Message, temperature float64) (string, error) {
	resp, err := o.llm.Chat(ctx, &inference.ChatRequest{
		Messages:    messages,
		Model:       o.model,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// synthesize converts spoken text to audio and stores the artifact,
// returning its URL. Empty spoken text, synthesis failure, and storage
// failure all degrade to "" rather than failing the turn.
func (o *Orchestrator) synthesize(ctx context.Context, spokenText, prefix string) string {
	if !speech.Speakable(spokenText) {
		o.metrics.AudioSkipped.Inc()
		o.logger.Warn("skipping audio, spoken text is empty")
		return ""
	}

	timer := prometheus.NewTimer(o.metrics.SynthDuration)
	result, err := o.tts.Synthesize(ctx, spokenText)
	timer.ObserveDuration()
	if err != nil {
		o.metrics.TTSFailures.Inc()
		o.logger.Warn("speech synthesis failed", "error", err)
		return ""
	}

	url, err := o.audio.Save(prefix, result.Audio)
	if err != nil {
		o.logger.Error("failed to store audio artifact", "error", err)
		return ""
	}
	return url
}
