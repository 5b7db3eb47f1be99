// Package theme maps a user's favourite thing to UI styling and copy.
package theme

import "strings"

type Theme struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentEmoji     string `json:"accentEmoji"`
	ButtonStyle     string `json:"buttonStyle"`
	FontStyle       string `json:"fontStyle"`
	Greeting        string `json:"greeting"`
	CallButtonText  string `json:"callButtonText"`
	WaitingMessage  string `json:"waitingMessage"`
	SuccessMessage  string `json:"successMessage"`
}

const DefaultID = "default"

var themes = map[string]Theme{
	"barbie": {
		ID: "barbie", Label: "Barbie",
		PrimaryColor: "#FF69B4", SecondaryColor: "#FF1493", BackgroundColor: "#FFF0F5", TextColor: "#8B0057",
		AccentEmoji: "💗", ButtonStyle: "pill", FontStyle: "playful",
		Greeting:       "Hi! I'm CallPal, and I'm here to help 💗",
		CallButtonText: "Let's do this! 💗",
		WaitingMessage: "CallPal is on the phone for you, bestie 💗",
		SuccessMessage: "All done! You did amazing 💗",
	},
	"space": {
		ID: "space", Label: "Space",
		PrimaryColor: "#6C63FF", SecondaryColor: "#3B28CC", BackgroundColor: "#0D0D1A", TextColor: "#E0E0FF",
		AccentEmoji: "🚀", ButtonStyle: "sharp", FontStyle: "bold",
		Greeting:       "Mission Control here. CallPal is ready 🚀",
		CallButtonText: "Launch Call 🚀",
		WaitingMessage: "CallPal is in orbit, handling the call 🚀",
		SuccessMessage: "Mission complete 🚀",
	},
	"nature": {
		ID: "nature", Label: "Nature",
		PrimaryColor: "#2D6A4F", SecondaryColor: "#40916C", BackgroundColor: "#F8FFF8", TextColor: "#1B4332",
		AccentEmoji: "🌿", ButtonStyle: "rounded", FontStyle: "friendly",
		Greeting:       "Hello! CallPal is here, calm as ever 🌿",
		CallButtonText: "Let CallPal handle it 🌿",
		WaitingMessage: "Taking it one step at a time 🌿",
		SuccessMessage: "All done, nice and easy 🌿",
	},
	"ocean": {
		ID: "ocean", Label: "Ocean",
		PrimaryColor: "#0096C7", SecondaryColor: "#0077B6", BackgroundColor: "#F0F8FF", TextColor: "#023E8A",
		AccentEmoji: "🌊", ButtonStyle: "pill", FontStyle: "friendly",
		Greeting:       "Hi! CallPal is ready to dive in 🌊",
		CallButtonText: "Make the call 🌊",
		WaitingMessage: "Flowing through the call for you 🌊",
		SuccessMessage: "Smooth sailing, all done 🌊",
	},
	"minecraft": {
		ID: "minecraft", Label: "Minecraft",
		PrimaryColor: "#5D8233", SecondaryColor: "#3C5A1E", BackgroundColor: "#F5F0E8", TextColor: "#2C2C2C",
		AccentEmoji: "⛏️", ButtonStyle: "sharp", FontStyle: "bold",
		Greeting:       "CallPal has spawned and is ready ⛏️",
		CallButtonText: "Mine that call ⛏️",
		WaitingMessage: "Building your outcome, block by block ⛏️",
		SuccessMessage: "Achievement unlocked ⛏️",
	},
	"cats": {
		ID: "cats", Label: "Cats",
		PrimaryColor: "#C084FC", SecondaryColor: "#A855F7", BackgroundColor: "#FAF5FF", TextColor: "#581C87",
		AccentEmoji: "🐱", ButtonStyle: "rounded", FontStyle: "playful",
		Greeting:       "Meow! CallPal is here and ready 🐱",
		CallButtonText: "Pounce on that call 🐱",
		WaitingMessage: "Quietly handling the call for you 🐱",
		SuccessMessage: "Purrfect, all done 🐱",
	},
	DefaultID: {
		ID: DefaultID, Label: "Calm",
		PrimaryColor: "#7C3AED", SecondaryColor: "#6D28D9", BackgroundColor: "#FFFFFF", TextColor: "#1F2937",
		AccentEmoji: "🌿", ButtonStyle: "rounded", FontStyle: "friendly",
		Greeting:       "Hi! I'm CallPal, here to help 🌿",
		CallButtonText: "Let CallPal handle it",
		WaitingMessage: "CallPal is on the call for you",
		SuccessMessage: "All done. You don't need to do anything else.",
	},
}

type rule struct {
	theme    string
	keywords []string
}

// Checked in order; the first rule with a keyword contained in the key wins.
var rules = []rule{
	{"barbie", []string{"barbie", "pink", "doll"}},
	{"space", []string{"space", "star", "rocket", "planet"}},
	{"nature", []string{"nature", "tree", "forest", "plant"}},
	{"ocean", []string{"ocean", "sea", "water", "beach", "fish"}},
	{"minecraft", []string{"minecraft", "roblox", "game", "gaming"}},
	{"cats", []string{"cat", "kitten", "kitty"}},
}

// Lookup returns the theme for favourite. Unknown input keeps the default
// styling but carries the user's own word as id and label.
func Lookup(favourite string) Theme {
	key := strings.ToLower(strings.TrimSpace(favourite))
	if key == "" {
		return themes[DefaultID]
	}
	if t, ok := themes[key]; ok {
		return t
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(key, kw) {
				return themes[r.theme]
			}
		}
	}

	t := themes[DefaultID]
	t.ID = key
	t.Label = favourite
	return t
}

// All returns every named theme keyed by id.
func All() map[string]Theme {
	out := make(map[string]Theme, len(themes))
	for k, v := range themes {
		out[k] = v
	}
	return out
}
