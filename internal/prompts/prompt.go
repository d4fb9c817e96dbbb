// Package prompts holds the system instructions for the generative backend.
package prompts

import "fmt"

func ExtractRecipe() string {
	return extractRecipe
}

const extractRecipe = `
Watch the provided cooking video and extract the recipe from it.

- The title should name the dish, not the video.
- The description is one or two sentences about the dish.
- List every ingredient mentioned or shown, with its amount and unit. Use
  free-form text like "to taste" when the video does not give a quantity.
- List the preparation steps in the order they are performed. Each step is one
  action or a small group of related actions.
- Fill category, time, difficulty and calories when the video makes them
  clear; leave them empty otherwise.

Return only valid JSON. Do not include markdown code blocks.
`

func TranslateRecipe(to string) string {
	return fmt.Sprintf(translateRecipe, languageString(to))
}

const translateRecipe = `
Translate the human-readable text of the provided recipe into %s: title,
description, category, difficulty, time, calories, ingredient names, amounts
and units, and step descriptions.

- Keep the JSON key structure exactly as provided.
- Return each step with the same id it has in the input. Do not add, remove
  or merge steps.
- Do not translate or alter URLs or any other machine-readable values.

Return only valid JSON. Do not include markdown code blocks.
`

func StepImage(title string, step string) string {
	return fmt.Sprintf(stepImage, title, step)
}

const stepImage = `
Generate a photo illustrating one step of preparing the recipe "%s".

The step: %s

The photo must be in a realistic photographic style, with good lighting and
composition, showing the ingredients and action of the step. It must not
include any text. Keep the dishes, surfaces and lighting consistent with any
reference photos provided.
`

func HeroImage(title string) string {
	return fmt.Sprintf(heroImage, title)
}

const heroImage = `
Generate a photo of the finished dish for the recipe "%s".

The photo must be in a realistic photographic style, appetizing, with good
lighting and composition, and must not include any text. Keep the dishes,
surfaces and lighting consistent with any reference photos provided.
`

func languageString(code string) string {
	switch code {
	case "en":
		return "English"
	case "ru":
		return "Russian"
	case "es":
		return "Spanish"
	case "fr":
		return "French"
	case "de":
		return "German"
	case "it":
		return "Italian"
	case "pt":
		return "Portuguese"
	case "ja":
		return "Japanese"
	default:
		return "the language with IETF tag " + code
	}
}
