// Package vocab holds the canonical resistance-exercise vocabulary and the
// fuzzy normalization that maps free text onto it.
package vocab

import "strings"

// Exercises is the canonical exercise list. It is a fixed taxonomy loaded
// at startup, not user-editable data. Declaration order matters: substring
// matching returns the first hit in this order.
var Exercises = []string{
	"Bench Press",
	"Incline Bench Press",
	"Decline Bench Press",
	"Dumbbell Press",
	"Overhead Press",
	"Push Press",
	"Squat",
	"Front Squat",
	"Goblet Squat",
	"Bulgarian Split Squat",
	"Leg Press",
	"Deadlift",
	"Romanian Deadlift",
	"Sumo Deadlift",
	"Barbell Row",
	"Dumbbell Row",
	"Seated Cable Row",
	"Lat Pulldown",
	"Pull Up",
	"Chin Up",
	"Dip",
	"Push Up",
	"Bicep Curl",
	"Hammer Curl",
	"Preacher Curl",
	"Tricep Extension",
	"Tricep Pushdown",
	"Skull Crusher",
	"Lateral Raise",
	"Front Raise",
	"Rear Delt Fly",
	"Chest Fly",
	"Cable Crossover",
	"Shrug",
	"Hip Thrust",
	"Glute Bridge",
	"Lunge",
	"Walking Lunge",
	"Leg Extension",
	"Leg Curl",
	"Calf Raise",
	"Hanging Leg Raise",
	"Plank",
	"Ab Wheel Rollout",
	"Face Pull",
	"Good Morning",
	"Clean and Press",
	"Farmer Carry",
}

// Normalize maps a free-text exercise name to the closest canonical name.
//
// Matching is permissive by design: an exact case/whitespace-insensitive
// match wins, then the first canonical entry related by substring in either
// direction, then the input itself re-cased to title case. Ties are broken
// by list order, not similarity.
func Normalize(candidate string) string {
	folded := fold(candidate)
	if folded == "" {
		return ""
	}

	for _, canonical := range Exercises {
		if fold(canonical) == folded {
			return canonical
		}
	}

	for _, canonical := range Exercises {
		fc := fold(canonical)
		if strings.Contains(fc, folded) || strings.Contains(folded, fc) {
			return canonical
		}
	}

	return titleCase(folded)
}

// fold lowercases and collapses internal whitespace.
func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
