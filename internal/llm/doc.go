// # Architecture
//
// Provider implementations live in subpackages. To avoid import cycles the
// subpackages define their own message, option and response types, and this
// package bridges them with small adapter types.
//
//	┌──────────────┐
//	│ llm package  │  ← Defines Provider interface
//	│              │  ← Factory: NewProvider()
//	│              │  ← Adapters for each provider
//	└──────┬───────┘
//	       │
//	       ├──────────────┐
//	       │              │
//	┌──────▼──────┐  ┌────▼────────┐
//	│ llm/gemini  │  │ llm/ollama  │
//	└─────────────┘  └─────────────┘
//
// # Providers
//
//   - gemini: Google Gemini through google.golang.org/genai. The API key is
//     read from llm.gemini.api_key, then GEMINI_API_KEY, then GOOGLE_API_KEY.
//   - ollama: a local Ollama server through github.com/ollama/ollama/api.
//     The host is read from llm.ollama.host, then OLLAMA_HOST.
//
// # Error Handling
//
// Subpackage errors are mapped onto this package's sentinels:
//
//   - ErrProviderUnavailable: service not reachable, quota or auth failures
//   - ErrModelNotFound: requested model is not available
//   - ErrInvalidResponse: provider answered without usable text
//   - ErrContextCanceled: the context was canceled or its deadline passed
//
// Use errors.Is() to check for specific error types:
//
//	if errors.Is(err, llm.ErrProviderUnavailable) {
//	    // Handle connection failure
//	}
//
// # Configuration
//
//	llm:
//	  provider: gemini
//	  temperature: 0.9
//	  timeout: 60s
//	  gemini:
//	    model: gemini-2.0-flash
//	  ollama:
//	    host: http://localhost:11434
//	    model: llama3.2
//
// # Thread Safety
//
// All Provider implementations must be safe for concurrent use.
package llm
