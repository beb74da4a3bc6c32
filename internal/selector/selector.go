package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stanstork/rtb-etl/internal/models"
)

// Convention describes how vendor exports are named.
type Convention struct {
	Prefix      string // e.g. "Retargeting_BR_Amaro_"
	Extension   string // e.g. ".xlsx"
	InAppMarker string // e.g. "InApp"
}

// Selection is the pair of files a run works on.
type Selection struct {
	Desktop    models.SourceFile
	InApp      models.SourceFile
	Candidates []string
}

// SelectionError is returned when a channel has no candidate file or the
// directory cannot be read.
type SelectionError struct {
	Dir     string
	Channel models.Channel
	Err     error
}

func (e *SelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("select source files in %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("select source files in %s: no %s file found", e.Dir, e.Channel)
}

func (e *SelectionError) Unwrap() error { return e.Err }

type Selector struct {
	conv Convention
}

func New(conv Convention) *Selector {
	return &Selector{conv: conv}
}

// Matches reports whether name follows the naming convention.
func (s *Selector) Matches(name string) bool {
	return strings.Contains(name, s.conv.Prefix) && strings.Contains(name, s.conv.Extension)
}

// DateToken extracts the reporting date token from a file name:
// "Retargeting_BR_Amaro_InApp_20240115_20240121.xlsx" -> "20240115".
func (s *Selector) DateToken(name string) string {
	token := strings.ReplaceAll(name, s.conv.Prefix, "")
	token = strings.ReplaceAll(token, s.conv.Extension, "")
	token = strings.ReplaceAll(token, s.conv.InAppMarker+"_", "")
	return strings.Split(token, "_")[0]
}

// Select picks the most recent desktop and in-app export in dir.
func (s *Selector) Select(dir string) (*Selection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &SelectionError{Dir: dir, Err: err}
	}

	sel := &Selection{}
	var desktop, inapp []string
	for _, e := range entries {
		if e.IsDir() || !s.Matches(e.Name()) {
			continue
		}
		sel.Candidates = append(sel.Candidates, e.Name())
		if strings.Contains(e.Name(), s.conv.InAppMarker) {
			inapp = append(inapp, e.Name())
		} else {
			desktop = append(desktop, e.Name())
		}
	}

	var ok bool
	if sel.Desktop, ok = s.latest(dir, desktop, models.ChannelDesktop); !ok {
		return nil, &SelectionError{Dir: dir, Channel: models.ChannelDesktop}
	}
	if sel.InApp, ok = s.latest(dir, inapp, models.ChannelInApp); !ok {
		return nil, &SelectionError{Dir: dir, Channel: models.ChannelInApp}
	}
	return sel, nil
}

// latest returns the file with the lexicographically greatest date token.
// Ties are broken by file name so the choice does not depend on directory order.
func (s *Selector) latest(dir string, names []string, ch models.Channel) (models.SourceFile, bool) {
	if len(names) == 0 {
		return models.SourceFile{}, false
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := s.DateToken(names[i]), s.DateToken(names[j])
		if ti != tj {
			return ti > tj
		}
		return names[i] < names[j]
	})
	return models.SourceFile{
		Name:      names[0],
		Path:      filepath.Join(dir, names[0]),
		Channel:   ch,
		DateToken: s.DateToken(names[0]),
	}, true
}
