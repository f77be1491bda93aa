package notify

import (
	"errors"
	"log"
	"os/exec"

	"stuywatch/models"
)

var ErrNoPlayer = errors.New("no sound player found")

// Candidate players with a stock sound file, checked in order when nothing
// is configured. afplay ships with macOS; paplay/aplay cover most Linux
// desktops.
var playerCandidates = []struct {
	player string
	file   string
}{
	{"afplay", "/System/Library/Sounds/Glass.aiff"},
	{"paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"},
	{"aplay", "/usr/share/sounds/alsa/Front_Center.wav"},
}

// SoundNotifier plays a short audio cue, once per batch regardless of how
// many apartments it holds.
type SoundNotifier struct {
	player string
	file   string
}

// NewSoundNotifier resolves the player command. Explicit settings win;
// otherwise the PATH is probed for a known player. Returns ErrNoPlayer when
// nothing playable exists, which callers treat as "sound unavailable", not
// a startup failure.
func NewSoundNotifier(player, file string) (*SoundNotifier, error) {
	if player != "" {
		if _, err := exec.LookPath(player); err != nil {
			return nil, err
		}
		return &SoundNotifier{player: player, file: file}, nil
	}

	for _, c := range playerCandidates {
		if _, err := exec.LookPath(c.player); err == nil {
			return &SoundNotifier{player: c.player, file: c.file}, nil
		}
	}

	return nil, ErrNoPlayer
}

func (n *SoundNotifier) Name() string { return "sound" }

func (n *SoundNotifier) Notify(apartments []models.Apartment) error {
	if len(apartments) == 0 {
		return nil
	}
	return n.play()
}

func (n *SoundNotifier) Test() error {
	return n.play()
}

func (n *SoundNotifier) play() error {
	args := []string{}
	if n.file != "" {
		args = append(args, n.file)
	}
	if err := exec.Command(n.player, args...).Run(); err != nil {
		return err
	}
	log.Printf("Played notification sound via %s", n.player)
	return nil
}
