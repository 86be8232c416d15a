package models

// TranscriptionEngine selects the worker's transcription backend.
type TranscriptionEngine string

const (
	EngineSherpaOnnx TranscriptionEngine = "local_sherpa_onnx"
	EngineWhisperCpp TranscriptionEngine = "local_whisper_cpp"
	EngineOpenAI     TranscriptionEngine = "openai_compatible"
)

// Accelerator selects local inference hardware.
type Accelerator string

const (
	AccelAuto Accelerator = "auto"
	AccelCPU  Accelerator = "cpu"
	AccelCUDA Accelerator = "cuda"
)

// AIProvider selects the cloud LLM backend.
type AIProvider string

const (
	ProviderOpenAI AIProvider = "openai_compatible"
	ProviderGemini AIProvider = "gemini"
)

// AppearanceSettings covers theme and UI chrome.
type AppearanceSettings struct {
	Theme            string `json:"theme"`    // light/dark
	Language         string `json:"language"` // en/zh
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
}

// WorkspaceSettings covers saving behavior and default paths.
type WorkspaceSettings struct {
	AutoSave        bool   `json:"autoSave"`
	DefaultLocation string `json:"defaultLocation"`
}

// CCStyle positions and styles closed captions in the player.
type CCStyle struct {
	FontSize  int     `json:"fontSize"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	BGOpacity float64 `json:"bgOpacity"`
}

// PlayerSettings covers playback presentation.
type PlayerSettings struct {
	CCStyle CCStyle `json:"ccStyle"`
}

// OpenAIEndpoint is an OpenAI-compatible API endpoint (can be local).
type OpenAIEndpoint struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

// TranscriptionSettings configures the worker's transcription engine.
type TranscriptionSettings struct {
	Engine           TranscriptionEngine `json:"engine"`
	Language         string              `json:"language"` // auto/en/zh/ja/ko/yue
	LocalAccelerator Accelerator         `json:"localAccelerator"`
	NumThreads       int                 `json:"numThreads"` // 0 = auto
	UseITN           bool                `json:"useItn"`
	OpenAI           OpenAIEndpoint      `json:"openai"`
}

// OpenAIChatEndpoint extends the endpoint with per-task models.
type OpenAIChatEndpoint struct {
	BaseURL      string `json:"baseUrl"`
	APIKey       string `json:"apiKey"`
	ChatModel    string `json:"chatModel"`
	SummaryModel string `json:"summaryModel"`
}

// SummaryPrompt is one user-editable summary prompt template.
type SummaryPrompt struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Template string `json:"template"`
}

// AISettings configures the cloud LLM providers and summary prompts.
type AISettings struct {
	Provider               AIProvider         `json:"provider"`
	OpenAI                 OpenAIChatEndpoint `json:"openai"`
	Gemini                 OpenAIEndpoint     `json:"gemini"`
	SummaryPrompts         []SummaryPrompt    `json:"summaryPrompts"`
	DefaultSummaryPromptID string             `json:"defaultSummaryPromptId"`
}

// PluginSettings lists enabled plugin ids.
type PluginSettings struct {
	Enabled []string `json:"enabled"`
}

// AppSettings is the single settings object of the document. Raw
// settings loaded from any source must pass through the store's
// normalizer before they reach consumers.
type AppSettings struct {
	Appearance    AppearanceSettings    `json:"appearance"`
	Workspace     WorkspaceSettings     `json:"workspace"`
	Player        PlayerSettings        `json:"player"`
	Transcription TranscriptionSettings `json:"transcription"`
	AI            AISettings            `json:"ai"`
	Plugins       PluginSettings        `json:"plugins"`
}

const defaultSummaryTemplate = `You are creating the FINAL summary for a media transcript.

Return ONLY JSON (no code fences).
Schema:
{
  "content": string (markdown),
  "keyPoints": string[] (optional),
  "chapters": [{"timestamp": number, "title": string, "summary": string?}] (optional)
}

Rules:
- Your "content" MUST be markdown.
- When referencing facts, include timestamps like [MM:SS].
- Include TWO mermaid diagrams inside the markdown as fenced code blocks:
  1) Narrative Timeline (time-driven) as a flowchart (NOT gantt). Start with: flowchart LR
  2) Logic Mind Map (logic-driven). Start with: mindmap
- Keep mermaid syntax simple and robust. Avoid exotic characters in node IDs; put human text in labels.

Input ({{inputType}}):

{{input}}
`

// DefaultSummaryPromptID is the id of the built-in summary prompt.
const DefaultSummaryPromptID = "sum-default"

// DefaultSettings returns the factory settings.
func DefaultSettings() AppSettings {
	return AppSettings{
		Appearance: AppearanceSettings{
			Theme:    "light",
			Language: "en",
		},
		Workspace: WorkspaceSettings{
			AutoSave:        true,
			DefaultLocation: "/workspace",
		},
		Player: PlayerSettings{
			CCStyle: CCStyle{
				FontSize:  16,
				X:         0.5,
				Y:         0.9,
				Color:     "#ffffff",
				BGOpacity: 0.6,
			},
		},
		Transcription: TranscriptionSettings{
			Engine:           EngineSherpaOnnx,
			Language:         "auto",
			LocalAccelerator: AccelAuto,
			NumThreads:       0,
			UseITN:           true,
			OpenAI: OpenAIEndpoint{
				BaseURL: "https://api.openai.com/v1",
				Model:   "whisper-1",
			},
		},
		AI: AISettings{
			Provider: ProviderOpenAI,
			OpenAI: OpenAIChatEndpoint{
				BaseURL:      "https://api.openai.com/v1",
				ChatModel:    "gpt-4o-mini",
				SummaryModel: "gpt-4o-mini",
			},
			Gemini: OpenAIEndpoint{
				BaseURL: "https://generativelanguage.googleapis.com",
				Model:   "gemini-1.5-flash",
			},
			SummaryPrompts: []SummaryPrompt{
				{
					ID:       DefaultSummaryPromptID,
					Name:     "Default (timeline + mind map)",
					Template: defaultSummaryTemplate,
				},
			},
			DefaultSummaryPromptID: DefaultSummaryPromptID,
		},
		Plugins: PluginSettings{Enabled: []string{}},
	}
}
