package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/bimmerbailey/jester/internal/content"
	"github.com/bimmerbailey/jester/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveJokes = `Here are five jokes for you!

1. **Style:** Pun
**Theme:** Bakery
**Joke:** "Why did the baker go to therapy?" "He kneaded it."

2. **Style:** One-liner
**Theme:** Space
**Joke:** "I'm reading a book about anti-gravity. It's impossible to put down."

3. **Style:** Knock-knock
**Theme:** Fruit
**Joke:** "Knock knock." "Who's there?" "Banana." "Banana who?"

4. **Style:** Riddle
**Theme:** Time
**Joke:** What has hands but can't clap? A clock.

5. **Style:** Wordplay
**Theme:** Music
**Joke:** "Why was the piano locked out?" "It lost its keys."
`

const twoStories = `1. **Genre:** Fantasy
**Theme:** Friendship
**Title:** "The Garden"
**Story:** A dragon found a garden nobody tended.

She watered it every morning until a fox came to help.
**Moral:** "Be kind."

2. **Genre:** Mystery
**Theme:** Curiosity
**Title:** "The Missing Spoon"
**Story:** Every night a spoon vanished from the drawer. The cat knew why.
`

func TestJokes_FiveWellFormed(t *testing.T) {
	jokes := ParseJokes(fiveJokes)
	require.Len(t, jokes, 5)

	assert.Equal(t, content.Joke{
		Style:     "Pun",
		Theme:     "Bakery",
		Content:   "Why did the baker go to therapy? He kneaded it.",
		Setup:     "Why did the baker go to therapy?",
		Punchline: "He kneaded it.",
	}, jokes[0])

	// Single quoted segment: content only.
	assert.Equal(t, "I'm reading a book about anti-gravity. It's impossible to put down.", jokes[1].Content)
	assert.False(t, jokes[1].HasPunchline())

	// Dialogue jokes keep every line and no punchline.
	assert.Equal(t, "Knock knock. Who's there? Banana. Banana who?", jokes[2].Content)
	assert.False(t, jokes[2].HasPunchline())

	// Unquoted joke text is used as is.
	assert.Equal(t, "What has hands but can't clap? A clock.", jokes[3].Content)

	assert.Equal(t, "Music", jokes[4].Theme)
	assert.True(t, jokes[4].HasPunchline())
}

func TestJokes_SetupPunchlineInvariant(t *testing.T) {
	for _, j := range ParseJokes(fiveJokes) {
		assert.NotEmpty(t, j.Content)
		if j.Setup != "" || j.Punchline != "" {
			assert.True(t, j.HasPunchline(), "setup and punchline must be set together")
			assert.Equal(t, j.Setup+" "+j.Punchline, j.Content)
		}
	}
}

func TestJokes_FewerThanRequestedKeepsOrder(t *testing.T) {
	raw := `1. **Style:** Pun
**Theme:** Cats
**Joke:** "First?" "One."

2. **Style:** Pun
**Theme:** Dogs
**Joke:** "Second?" "Two."`

	jokes := ParseJokes(raw)
	require.Len(t, jokes, 2)
	assert.Equal(t, "Cats", jokes[0].Theme)
	assert.Equal(t, "Dogs", jokes[1].Theme)
}

func TestJokes_FallbackOnGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "  \n\t "},
		{name: "prose", raw: "Sorry, I can't think of any jokes right now."},
		{name: "missing joke field", raw: "1. **Style:** Pun\n**Theme:** Cats"},
		{name: "empty joke field", raw: "1. **Style:** Pun\n**Theme:** Cats\n**Joke:** \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, content.FallbackJokes(), ParseJokes(tt.raw))
		})
	}
}

func TestJokes_LabelVariants(t *testing.T) {
	raw := "```markdown\r\n" +
		"1. **style**: Pun\r\n" +
		"**THEME:** Weather\r\n" +
		"**Joke:** “What did one cloud say to the other?” “You’re looking mist-erious.”\r\n" +
		"```"

	jokes := ParseJokes(raw)
	require.Len(t, jokes, 1)
	assert.Equal(t, "Pun", jokes[0].Style)
	assert.Equal(t, "Weather", jokes[0].Theme)
	assert.Equal(t, "What did one cloud say to the other?", jokes[0].Setup)
	assert.Equal(t, "You’re looking mist-erious.", jokes[0].Punchline)
}

func TestJokes_EchoedPromptSkipped(t *testing.T) {
	p, err := prompt.Build(content.Jokes)
	require.NoError(t, err)

	raw := p + "\n\n2. **Style:** Pun\n**Theme:** Trees\n**Joke:** \"Why?\" \"Leaves.\""

	var got Outcome
	jokes := New(WithObserver(func(o Outcome) { got = o })).Jokes(raw)

	require.Len(t, jokes, 1)
	assert.Equal(t, "Trees", jokes[0].Theme)
	assert.Equal(t, 2, got.Skipped)
	assert.Equal(t, 1, got.Records)
	assert.False(t, got.Fallback)
}

func TestStories_WellFormed(t *testing.T) {
	stories := ParseStories(twoStories)
	require.Len(t, stories, 2)

	assert.Equal(t, content.Story{
		Genre:   "Fantasy",
		Theme:   "Friendship",
		Title:   "The Garden",
		Content: "A dragon found a garden nobody tended.\n\nShe watered it every morning until a fox came to help.",
		Moral:   "Be kind.",
	}, stories[0])

	assert.Equal(t, "The Missing Spoon", stories[1].Title)
	assert.Equal(t, "Every night a spoon vanished from the drawer. The cat knew why.", stories[1].Content)
	assert.False(t, stories[1].HasMoral())
}

func TestStories_StoryOnNextLine(t *testing.T) {
	raw := `1. **Genre:** Adventure
**Theme:** Courage
**Title:** The Bridge
**Story:**
Mira crossed the rope bridge alone.
**Moral:** Courage grows with every step.`

	stories := ParseStories(raw)
	require.Len(t, stories, 1)
	assert.Equal(t, "The Bridge", stories[0].Title)
	assert.Equal(t, "Mira crossed the rope bridge alone.", stories[0].Content)
	assert.Equal(t, "Courage grows with every step.", stories[0].Moral)
}

func TestStories_MissingRequiredFieldDropsBlock(t *testing.T) {
	raw := `1. **Genre:** Fantasy
**Theme:** Friendship
**Story:** A story with no title.

2. **Genre:** Comedy
**Theme:** Family
**Title:** "Grandpa's Hat"
**Story:** The hat blew away and came back with a bird in it.`

	var got Outcome
	stories := New(WithObserver(func(o Outcome) { got = o })).Stories(raw)

	require.Len(t, stories, 1)
	assert.Equal(t, "Grandpa's Hat", stories[0].Title)
	assert.Equal(t, Outcome{
		Category: content.Stories,
		Raw:      raw,
		Blocks:   2,
		Dropped:  1,
		Records:  1,
	}, got)
}

func TestStories_Fallback(t *testing.T) {
	var got Outcome
	stories := New(WithObserver(func(o Outcome) { got = o })).Stories("no stories today")

	assert.Equal(t, content.FallbackStories(), stories)
	assert.True(t, got.Fallback)
	assert.Equal(t, 0, got.Records)
	assert.Equal(t, "no stories today", got.Raw)
}

func TestParser_LogsFallbackWithRawText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New(WithLogger(logger)).Jokes("the model said something odd")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "using fallback")
	assert.Contains(t, out, "the model said something odd")
}

func TestParser_LogsSuccessAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New(WithLogger(logger)).Jokes(fiveJokes)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "records=5")
	assert.NotContains(t, out, "level=WARN")
}

func TestBlocks(t *testing.T) {
	blocks := Blocks("intro\n1. first\n  2.\tsecond\n\n3. \n10. tenth")
	assert.Equal(t, []string{"intro", "first", "second", "tenth"}, blocks)
	assert.Empty(t, Blocks(""))
}

func TestTableFor(t *testing.T) {
	names := func(tbl Table) []string {
		var out []string
		for _, f := range tbl {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"style", "theme", "joke"}, names(TableFor(content.Jokes)))
	assert.Equal(t, []string{"genre", "theme", "title", "story", "moral"}, names(TableFor(content.Stories)))
	assert.Nil(t, TableFor(content.Category("poems")))

	for _, f := range TableFor(content.Stories) {
		assert.Equal(t, f.Name != "moral", f.Required, f.Name)
	}
}

func TestSplitJoke(t *testing.T) {
	tests := []struct {
		raw                    string
		setup, punchline, text string
	}{
		{raw: `"A?" "B."`, setup: "A?", punchline: "B.", text: "A? B."},
		{raw: `"Only one."`, text: "Only one."},
		{raw: `no quotes`, text: "no quotes"},
		{raw: `"a" "b" "c"`, text: "a b c"},
		{raw: `""`, text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			setup, punchline, text := splitJoke(tt.raw)
			assert.Equal(t, tt.setup, setup)
			assert.Equal(t, tt.punchline, punchline)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestEchoesTemplate(t *testing.T) {
	assert.True(t, echoesTemplate("**Style:** [style]"))
	assert.True(t, echoesTemplate("Example: **Joke:** ..."))
	assert.False(t, echoesTemplate(strings.TrimSpace(fiveJokes)))
}

func TestExampleProseIsNotAnEcho(t *testing.T) {
	story := `1. **Genre:** Fantasy
**Theme:** Leadership
**Title:** "The First Bird"
**Story:** The flock would not leave the cliff.

So the little swift led by example: she flew first.
**Moral:** "Lead by example: others will follow."`

	var got Outcome
	stories := New(WithObserver(func(o Outcome) { got = o })).Stories(story)
	require.Len(t, stories, 1)
	assert.False(t, got.Fallback)
	assert.Equal(t, 0, got.Skipped)
	assert.Equal(t, "The First Bird", stories[0].Title)
	assert.Contains(t, stories[0].Content, "led by example: she flew first.")
	assert.Equal(t, "Lead by example: others will follow.", stories[0].Moral)

	joke := `1. **Style:** Wordplay
**Theme:** Grammar
**Joke:** "Why do colons make good teachers?" "They lead by example: everything follows them."`

	jokes := ParseJokes(joke)
	require.Len(t, jokes, 1)
	assert.Equal(t, "They lead by example: everything follows them.", jokes[0].Punchline)
}

func TestInstructionLinesAreEchoes(t *testing.T) {
	assert.True(t, echoesTemplate("Example:\n**Style:** Pun"))
	assert.True(t, echoesTemplate("  **Example:** see below"))
	assert.True(t, echoesTemplate("Format each story like this"))
	assert.True(t, echoesTemplate("For each joke provide:\n- Style"))
	assert.False(t, echoesTemplate("**Joke:** \"For example: why?\" \"Because.\""))
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: `"The Wise Owl"`, want: "The Wise Owl"},
		{in: `"The Wise Owl".`, want: "The Wise Owl"},
		{in: `“The Wise Owl” !`, want: "The Wise Owl"},
		{in: `The Wise Owl`, want: "The Wise Owl"},
		{in: `"Kindness" matters most.`, want: `Kindness" matters most.`},
		{in: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unquote(tt.in))
		})
	}
}

func TestStories_TitleWithTrailingPunctuation(t *testing.T) {
	raw := `1. **Genre:** Fable
**Theme:** Wisdom
**Title:** "The Wise Owl".
**Story:** The owl listened more than she spoke.`

	stories := ParseStories(raw)
	require.Len(t, stories, 1)
	assert.Equal(t, "The Wise Owl", stories[0].Title)
}
