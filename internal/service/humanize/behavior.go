package humanize

import (
	"encoding/json"
	"math/rand"
	"os"
	"time"
)

// BehaviorModel is the mined vocabulary the slang and emoji stages draw
// from. It is produced offline by cmd/tools/stylemine.
type BehaviorModel struct {
	Slang     []string `json:"slang"`
	TopEmojis []string `json:"top_emojis"`
}

// DefaultBehaviorModel returns the built-in vocabulary used until a mined
// model exists.
func DefaultBehaviorModel() BehaviorModel {
	return BehaviorModel{
		Slang:     []string{"wyd", "hru", "idk", "lmao", "fr"},
		TopEmojis: []string{"😂", "😅", "😈", "😶‍🌫️"},
	}
}

// LoadBehaviorModel reads a mined model from path. A missing file is not an
// error; the defaults apply.
func LoadBehaviorModel(path string) (BehaviorModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultBehaviorModel(), nil
		}
		return BehaviorModel{}, err
	}

	var model BehaviorModel
	if err := json.Unmarshal(data, &model); err != nil {
		return BehaviorModel{}, err
	}
	return model, nil
}

func newDefaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
