package tutor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emberlabs/go-ember/pkg/inference"
)

// Defaults for the tutoring persona.
const (
	DefaultSubject  = "math"
	DefaultGrade    = "6"
	DefaultStandard = "6.EE.1"
)

// Sampling temperatures per call type.
const (
	turnTemperature     = 0.3
	retryTemperature    = 0.6
	greetingTemperature = 0.8
)

const personaTemplate = `You are EMBER, the world’s best %s tutor. You are warm, encouraging, and extremely good at helping students learn through their thinking and problem solving.

You specialize in grade %s Common Core %s, especially standard %s. You're helping a student named Sonja.

Your tone is warm, responsive, and age-appropriate. Always scaffold slowly — only ask one question or make one comment at a time. Avoid long or complex instructions.

Use clear, inline LaTeX math like \(2^3\), and don’t give answers away. Gently guide Sonja to think through the next step herself.

If Sonja types a question or makes a guess (e.g. "how?" or "2, 3 times?"), respond to it directly. Don’t ignore it or continue your plan.`

const rephrasePrompt = `You are a math tutor. Rephrase this to avoid repeating past ideas. Make it short and scaffolded. Use inline LaTeX like \(2^3\).`

const clarifyPrompt = `You are a math tutor. The student asked a question or made a guess. Rewrite the reply to directly respond, kindly and clearly:`

const greetingPrompt = `You are EMBER, a cheerful and kind math tutor. Say a one-sentence greeting to a student named Sonja who's starting a worksheet today. Be warm and supportive.`

// Fallback strings used when a provider call fails or returns nothing.
const (
	fallbackReply    = "Oops! I didn’t get a response."
	fallbackGreeting = "Hi Sonja! Ready to dive into some math?"
)

// PersonaPrompt renders the tutoring system prompt. Empty parameters fall
// back to the package defaults.
func PersonaPrompt(subject, grade, standard string) string {
	if subject == "" {
		subject = DefaultSubject
	}
	if grade == "" {
		grade = DefaultGrade
	}
	if standard == "" {
		standard = DefaultStandard
	}
	return fmt.Sprintf(personaTemplate, subject, grade, subject, standard)
}

// RenderContext builds the context block sent alongside the student's
// message: filled worksheet answers, any text read from an attached
// image, and an explicit focus pointer. Returns "" when there is nothing
// to report.
func RenderContext(answers map[string]string, imageText, lastEditedProblem string) string {
	var b strings.Builder

	labels := make([]string, 0, len(answers))
	for label, value := range answers {
		if value != "" {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	if len(labels) > 0 {
		b.WriteString("The student filled out the worksheet:\n")
		for _, label := range labels {
			fmt.Fprintf(&b, "%s: %q\n", label, answers[label])
		}
	}

	if imageText != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Text read from the student's attached image:\n")
		b.WriteString(imageText)
		b.WriteString("\n")
	}

	if lastEditedProblem != "" {
		b.WriteString("\nFocus your response on: ")
		b.WriteString(lastEditedProblem)
	}

	return strings.TrimSpace(b.String())
}

// imageCaption accompanies the image reference in multi-part messages.
const imageCaption = "Here is the student's current work:"

// BuildTurnMessages assembles the message list for one tutoring turn.
//
// With an image attached the model sees context, then visual evidence,
// then the typed message last. Without one, the full session history is
// replayed after the context block; conversation memory lives entirely
// in that replay.
func BuildTurnMessages(persona, contextText, imageURL, message string, history []inference.Message) []inference.Message {
	messages := []inference.Message{inference.NewSystemMessage(persona)}

	if contextText != "" {
		messages = append(messages, inference.NewUserMessage(contextText))
	}

	if imageURL != "" {
		messages = append(messages, inference.NewImageMessage(imageCaption, imageURL))
		if message != "" {
			messages = append(messages, inference.NewUserMessage(message))
		}
		return messages
	}

	return append(messages, history...)
}
