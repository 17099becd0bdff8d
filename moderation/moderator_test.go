package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"partyverse/errors"

	"github.com/stretchr/testify/require"
)

func TestCensor_PlainMatch(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"gatecrash"}, '*')
	req.NoError(err)

	censored, found := m.Censor("we should gatecrash that party")
	req.Equal("we should ********* that party", censored)
	req.Equal([]string{"gatecrash"}, found)
}

func TestCensor_LeetSpeak(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"scam"}, '*')
	req.NoError(err)

	censored, found := m.Censor("this event is a $c4m")
	req.Equal("this event is a ****", censored)
	req.Len(found, 1)
}

func TestCensor_CaseInsensitive(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"spam"}, '#')
	req.NoError(err)

	censored, _ := m.Censor("SPAM Spam sPaM")
	req.Equal("#### #### ####", censored)
}

func TestCensor_NoMatchReturnsOriginal(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"spam"}, '*')
	req.NoError(err)

	original := "see you at the party tonight!"
	censored, found := m.Censor(original)
	req.Equal(original, censored)
	req.Nil(found)
}

func TestLoadWords(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	req.NoError(os.WriteFile(path, []byte("# banned\nspam\n\ngatecrash\n"), 0o644))

	words, err := LoadWords(path)
	req.NoError(err)
	req.Equal([]string{"spam", "gatecrash"}, words)
}

func TestLoadWords_EmptyFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	req.NoError(os.WriteFile(path, []byte("# only a comment\n"), 0o644))

	_, err := LoadWords(path)
	req.ErrorIs(err, errors.ErrEmptyWords)
}
