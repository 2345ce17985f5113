// Package prompt renders the analysis, generation, and polish prompts. It is
// pure text assembly: templates are filled in a single pass and handed to the
// caller, never sent anywhere from here.
package prompt

import (
	"fmt"
	"strings"

	"coldopen/internal/model"
)

// Prompt is one ready-to-send prompt pair.
type Prompt struct {
	System string
	User   string
}

// FormatAnalysisPrompt renders the profile-analysis prompt for one target.
func FormatAnalysisPrompt(user *model.User, target *model.TargetProfile) Prompt {
	r := strings.NewReplacer(
		"{user_profile}", senderProfileText(user),
		"{target_profile}", target.RawProfileText,
	)
	return Prompt{
		System: analysisSystemPrompt,
		User:   r.Replace(analysisUserTemplate),
	}
}

// FormatMessagePrompt renders the message-generation prompt. The one-shot
// example is selected by objective and the length preset becomes an explicit
// word-count target.
func FormatMessagePrompt(user *model.User, target *model.TargetProfile, analysis *model.ProfileAnalysis, objective string, tone model.Tone, length model.Length) Prompt {
	r := strings.NewReplacer(
		"{objective}", objective,
		"{tone}", string(tone),
		"{length_guidance}", LengthGuidance(length),
		"{user_profile}", senderProfileText(user),
		"{target_profile}", target.RawProfileText,
		"{analysis}", analysisText(analysis),
		"{example}", exampleForObjective(objective),
	)
	return Prompt{
		System: generationSystemPrompt,
		User:   r.Replace(generationUserTemplate),
	}
}

// FormatPolishPrompt renders the refinement prompt for an edited draft. An
// empty instruction gets a general tightening directive.
func FormatPolishPrompt(message, instruction string) Prompt {
	if strings.TrimSpace(instruction) == "" {
		instruction = "Tighten the wording and improve the flow without changing the meaning."
	}
	r := strings.NewReplacer(
		"{instruction}", instruction,
		"{message}", message,
	)
	return Prompt{
		System: polishSystemPrompt,
		User:   r.Replace(polishUserTemplate),
	}
}

// LengthGuidance maps a length preset to the word-count target embedded in
// the prompt.
func LengthGuidance(length model.Length) string {
	switch length {
	case model.LengthShort:
		return "50-100 words"
	case model.LengthLong:
		return "150-250 words"
	default:
		return "100-150 words"
	}
}

// senderProfileText flattens the sender's settings profile into labeled
// lines. Unset fields are written as "Not specified" so the model knows the
// field is unknown rather than inferring one; a wholly empty profile (which
// generation refuses upstream but polish tolerates) collapses to a single
// line.
func senderProfileText(user *model.User) string {
	if user == nil || user.ProfileEmpty() {
		return "No sender profile provided."
	}

	var b strings.Builder
	writeField(&b, "Name", user.FullName)
	writeField(&b, "Current role", user.CurrentRole)
	writeField(&b, "Company", user.CurrentCompany)
	writeField(&b, "Background", user.Background)
	writeField(&b, "Goals", user.Goals)
	writeField(&b, "Value proposition", user.ValueProposition)
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = "Not specified"
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

// analysisText flattens the structured analysis into prompt text.
func analysisText(analysis *model.ProfileAnalysis) string {
	if analysis == nil {
		return "No analysis available."
	}

	var b strings.Builder
	b.WriteString("Talking points:\n")
	for _, tp := range analysis.TalkingPoints {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", tp.Relevance, tp.Topic, tp.Detail)
	}
	if len(analysis.MutualInterests) > 0 {
		b.WriteString("Mutual interests: ")
		b.WriteString(strings.Join(analysis.MutualInterests, "; "))
		b.WriteString("\n")
	}
	if len(analysis.ConnectionOpportunities) > 0 {
		b.WriteString("Connection opportunities: ")
		b.WriteString(strings.Join(analysis.ConnectionOpportunities, "; "))
		b.WriteString("\n")
	}
	if analysis.SuggestedApproach != "" {
		b.WriteString("Suggested approach: ")
		b.WriteString(analysis.SuggestedApproach)
		b.WriteString("\n")
	}
	if len(analysis.CautionFlags) > 0 {
		b.WriteString("Caution flags: ")
		b.WriteString(strings.Join(analysis.CautionFlags, "; "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
