package live

import "github.com/calebdw/minuted/internal/audio"

// Wire message types for the realtime session protocol.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model                    string            `json:"model"`
	GenerationConfig         generationConfig  `json:"generationConfig"`
	SystemInstruction        systemInstruction `json:"systemInstruction"`
	InputAudioTranscription  struct{}          `json:"inputAudioTranscription"`
	OutputAudioTranscription struct{}          `json:"outputAudioTranscription"`
}

type generationConfig struct {
	// The protocol requires an audio response modality even though the
	// response stream is discarded.
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type systemInstruction struct {
	Parts []textPart `json:"parts"`
}

type textPart struct {
	Text string `json:"text"`
}

// mediaMessage carries one outbound audio frame.
type mediaMessage struct {
	Media audio.Blob `json:"media"`
}

// serverMessage is the envelope for inbound session messages. Fields other
// than the ones consumed here (model audio, usage metadata) are ignored by
// the decoder.
type serverMessage struct {
	ServerContent *serverContent `json:"serverContent"`
}

type serverContent struct {
	InputTranscription  *transcriptionText `json:"inputTranscription"`
	OutputTranscription *transcriptionText `json:"outputTranscription"`
	TurnComplete        bool               `json:"turnComplete"`
}

type transcriptionText struct {
	Text string `json:"text"`
}

func newSetupMessage(cfg Config) setupMessage {
	return setupMessage{
		Setup: setupPayload{
			Model: cfg.Model,
			GenerationConfig: generationConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig: speechConfig{
					VoiceConfig: voiceConfig{
						PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: cfg.Voice},
					},
				},
			},
			SystemInstruction: systemInstruction{
				Parts: []textPart{{Text: personaInstruction}},
			},
		},
	}
}
