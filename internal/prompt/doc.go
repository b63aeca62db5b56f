// Package prompt builds the instructions jester sends to the model.
//
// Each [content.Category] has one fixed template. The template states how
// many items to produce, names every field with the exact bold label the
// parser looks for, and shows a numbered example of the layout:
//
//	1. **Style:** [style]
//	**Theme:** [theme]
//	**Joke:** "[setup]" "[punchline]"
//
// Basic usage:
//
//	messages, err := prompt.Messages(content.Jokes)
//	if err != nil {
//	    return err
//	}
//	resp, err := provider.Chat(ctx, messages, chatOpts)
package prompt
