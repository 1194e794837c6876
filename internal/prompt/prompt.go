// Package prompt assembles the system and user content for each
// interpretation task. Everything here is a pure function of its inputs,
// so prompts can be snapshot-tested without network access.
package prompt

import (
	"strings"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/vocab"
)

// PoundsToKg is the pound-to-kilogram conversion factor embedded in the
// workout and classifier prompts.
const PoundsToKg = 0.453592

// Prompt is an assembled system prompt plus user content.
type Prompt struct {
	System string
	User   string
}

// Meal builds the meal-interpretation prompt. The user content carries a
// bracketed context prefix with the reference time and the optional
// meal-type hint.
func Meal(transcript string, ctx entry.Context) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a nutrition logging assistant. Interpret the user's free-form meal description into one structured meal record.\n\n")
	sb.WriteString("Follow this procedure:\n")
	sb.WriteString("1. Decide whether the text refers to a previous meal (\"same as yesterday\", \"what I had on Monday\"). If it does, call the search_previous_meals tool before answering and base the description and calories on the retrieved record.\n")
	sb.WriteString("2. Determine the meal type. Use the hint in the context prefix when present; otherwise infer it from the wording and the time of day.\n")
	sb.WriteString("3. Write a short, concrete description of what was eaten.\n")
	sb.WriteString("4. Estimate total calories for the described portion sizes.\n")
	sb.WriteString("5. Round calories: to the nearest 10 under 500 kcal, to the nearest 50 at or above 500 kcal.\n\n")
	sb.WriteString("List every guess you made (portion sizes, preparation, which prior meal was meant) in \"assumptions\".\n\n")
	sb.WriteString("Respond with ONLY a JSON object:\n")
	sb.WriteString(`{"meal_type": "breakfast|lunch|dinner|snack", "description": string, "calories": integer, "confidence": number between 0 and 1, "assumptions": [string]}` + "\n")

	return Prompt{
		System: sb.String(),
		User:   mealContextPrefix(ctx) + " " + transcript,
	}
}

// mealContextPrefix renders the bracketed time/meal-type prefix, e.g.
// "[Time: Monday, January 2 at 8:15 AM, Meal type: lunch]". The meal-type
// segment is omitted when no hint is set.
func mealContextPrefix(ctx entry.Context) string {
	ref := ctx.Reference()
	prefix := "[Time: " + ref.Format("Monday, January 2") + " at " + ref.Format("3:04 PM")
	if ctx.MealTypeHint != "" {
		prefix += ", Meal type: " + string(ctx.MealTypeHint)
	}
	return prefix + "]"
}

// WorkoutSet builds the workout-set interpretation prompt. The canonical
// exercise list is embedded so the model names exercises consistently.
func WorkoutSet(transcript string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a workout logging assistant. Interpret the user's free-form description of one exercise set into a structured record.\n\n")
	sb.WriteString("Known exercises (use these names when one matches):\n")
	sb.WriteString(strings.Join(vocab.Exercises, ", "))
	sb.WriteString("\n\n")
	sb.WriteString("Classify the exercise type: anything performed for reps with or without load is \"resistance\"; anything performed for time (running, cycling, rowing, swimming) is \"cardio\".\n")
	sb.WriteString("For resistance: fill reps and weight_kg when mentioned, leave duration_minutes null.\n")
	sb.WriteString("For cardio: fill duration_minutes, leave reps and weight_kg null.\n")
	sb.WriteString("Convert pounds to kilograms by multiplying by 0.453592 and rounding to the nearest 0.5 kg.\n")
	sb.WriteString("Assume an empty barbell weighs 20 kg.\n")
	sb.WriteString("List every assumption (bar weight, unit guesses) in \"assumptions\".\n\n")
	sb.WriteString("Respond with ONLY a JSON object:\n")
	sb.WriteString(`{"exercise_name": string, "exercise_type": "resistance|cardio", "reps": integer or null, "weight_kg": number or null, "duration_minutes": integer or null, "notes": string or null, "confidence": number between 0 and 1, "assumptions": [string]}` + "\n")

	return Prompt{System: sb.String(), User: transcript}
}

// Classifier builds the intent-classification prompt.
func Classifier(transcript string) Prompt {
	var sb strings.Builder
	sb.WriteString("You classify a health-tracking utterance into exactly one intent:\n")
	sb.WriteString("- \"meal\": the user describes food they ate or are eating.\n")
	sb.WriteString("- \"workout_set\": the user describes an exercise set or cardio session.\n")
	sb.WriteString("- \"weight\": the user reports their body weight.\n")
	sb.WriteString("- \"steps\": the user reports a step count.\n")
	sb.WriteString("- \"question\": the user asks about their history or data.\n\n")
	sb.WriteString("For \"weight\", extract the value as kilograms in \"weight_kg\". Convert pounds by multiplying by 0.453592 and rounding to 1 decimal.\n")
	sb.WriteString("For \"steps\", extract the count as an integer in \"steps\". Accept shorthand: \"10k\" means 10000, \"10,000\" means 10000.\n")
	sb.WriteString("Leave weight_kg and steps null for every other intent.\n\n")
	sb.WriteString("Respond with ONLY a JSON object:\n")
	sb.WriteString(`{"intent": "meal|workout_set|weight|steps|question", "confidence": number between 0 and 1, "weight_kg": number or null, "steps": integer or null, "assumptions": [string]}` + "\n")

	return Prompt{System: sb.String(), User: transcript}
}

// Question builds the history question-answering prompt. The data window
// is embedded verbatim; the model must not reach beyond it.
func Question(question string, window string) Prompt {
	var sb strings.Builder
	sb.WriteString("You answer questions about the user's logged health data.\n")
	sb.WriteString("Answer in 1-3 sentences using ONLY the data provided below.\n")
	sb.WriteString("If the data is insufficient to answer, say so; never invent values.\n")

	var ub strings.Builder
	ub.WriteString("Data:\n")
	ub.WriteString(window)
	ub.WriteString("\n\nQuestion: ")
	ub.WriteString(question)

	return Prompt{System: sb.String(), User: ub.String()}
}
