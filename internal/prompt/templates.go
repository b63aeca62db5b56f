package prompt

// jokesTemplate asks for %d jokes. Field labels must stay in step with the
// joke extraction table in internal/parser.
const jokesTemplate = `Generate %d different family-friendly jokes. Give every joke a different style and a different theme.

Styles can include puns, one-liners, knock-knock jokes, observational humor, wordplay and riddles.

For each joke provide:
- Style: the style of humor
- Theme: what the joke is about
- Joke: the setup and the punchline, each wrapped in double quotes

Format every joke exactly like the template below, numbered from 1, with no introduction and no closing remarks:

1. **Style:** [style]
**Theme:** [theme]
**Joke:** "[setup]" "[punchline]"`

// storiesTemplate asks for %d stories. Field labels must stay in step with the
// story extraction table in internal/parser.
const storiesTemplate = `Write %d different short stories suitable for readers of all ages. Give every story a different genre and a different theme.

For each story provide:
- Genre: the genre of the story
- Theme: the central theme
- Title: the title, wrapped in double quotes
- Story: two to four short paragraphs
- Moral: a single sentence, wrapped in double quotes

Format every story exactly like the template below, numbered from 1, with no introduction and no closing remarks:

1. **Genre:** [genre]
**Theme:** [theme]
**Title:** "[title]"
**Story:** [story paragraphs]
**Moral:** "[moral]"`
