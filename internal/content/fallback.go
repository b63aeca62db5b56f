package content

// FallbackJoke is shown whenever no joke could be generated or recovered.
var FallbackJoke = Joke{
	Style:     "Pun",
	Theme:     "Programming",
	Setup:     "Why did the programmer quit his job?",
	Punchline: "Because he didn't get arrays!",
	Content:   "Why did the programmer quit his job? Because he didn't get arrays!",
}

// FallbackStory is shown whenever no story could be generated or recovered.
var FallbackStory = Story{
	Genre: "Fable",
	Theme: "Patience",
	Title: "The Lantern That Waited",
	Content: "At the edge of a fishing village hung an old lantern that never seemed to shine as brightly as the new ones in the harbour.\n\n" +
		"Each night the fishermen passed it by, trusting the glittering lamps on the pier instead. " +
		"The old lantern kept its small flame burning anyway, steady against the wind.\n\n" +
		"One stormy evening the harbour lamps guttered out one after another. " +
		"Far out at sea, a lost boat caught sight of a single patient glow on the hill and followed it safely home.",
	Moral: "Steady effort shines brightest when it is needed most.",
}

// FallbackJokes returns a fresh one-element slice holding FallbackJoke.
func FallbackJokes() []Joke {
	return []Joke{FallbackJoke}
}

// FallbackStories returns a fresh one-element slice holding FallbackStory.
func FallbackStories() []Story {
	return []Story{FallbackStory}
}
