package config

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Backend: BackendConfig{
			Provider: DefaultProvider,
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultTimeout.String(),
		},
	}
}

func GenerateConfigTemplate() string {
	return `# tempchat configuration
# Location: ~/.config/tempchat/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Backend that answers each message. One of:
#   connect    - multipart POST to the endpoint below (default)
#   ollama     - local Ollama server (endpoint = Ollama host)
#   openai     - OpenAI API (OPENAI_API_KEY)
#   openrouter - OpenRouter (OPENROUTER_API_KEY)
#   anthropic  - Anthropic API (ANTHROPIC_API_KEY)
provider = "connect"

# URL the message is sent to. For ollama/openai/anthropic this is the API base URL
# and may be left empty to use the provider's default.
endpoint = "http://localhost:8080/api/connect-ai/message"

# Model name (ignored by the connect provider)
model = ""

# How long to wait for a reply before giving up
timeout = "1m0s"
`
}
