package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	NotificationLimit    *int          `env:"NOTIFICATION_LIMIT"`
	SessionSecret        string        `env:"SESSION_SECRET,required=true"`
	SessionTokenDuration time.Duration `env:"SESSION_TOKEN_DURATION,required=true"`
	CensoredWordsPath    string        `env:"CENSORED_WORDS_PATH,required=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,required=true"`
	NoColour             bool          `env:"NO_COLOUR"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
