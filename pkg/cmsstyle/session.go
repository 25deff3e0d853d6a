package cmsstyle

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

// LogoDirEnv names the environment variable searched for logo files given
// as bare names.
const LogoDirEnv = "CMSSTYLE_DIR"

// State is the branding configuration of a session.
type State struct {
	CmsText     string
	CmsTextFont int
	CmsTextSize float64

	ExtraText            string
	ExtraTextFont        int
	ExtraOverCmsTextSize float64

	AdditionalInfo     []string
	AdditionalInfoFont int

	LumiText       string
	LumiTextSize   float64
	LumiTextOffset float64
	EnergyText     string

	LogoPath string
}

// DefaultState returns the reference branding: "CMS Preliminary" with the
// full Run 2 luminosity at 13 TeV.
func DefaultState() State {
	return State{
		CmsText:              "CMS",
		CmsTextFont:          61,
		CmsTextSize:          0.75,
		ExtraText:            "Preliminary",
		ExtraTextFont:        52,
		ExtraOverCmsTextSize: 0.76,
		AdditionalInfoFont:   42,
		LumiText:             "Run 2, 138 fb^{-1}",
		LumiTextSize:         0.6,
		LumiTextOffset:       0.2,
		EnergyText:           "13 TeV",
	}
}

func (st State) clone() State {
	st.AdditionalInfo = append([]string(nil), st.AdditionalInfo...)
	return st
}

// Session owns the branding state and the global style of one plotting
// session. A Session is not safe for concurrent use.
type Session struct {
	state     State
	style     *graphics.Style
	palette2D []colors.Index
	logger    *log.Logger
	logoDir   func() string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState starts the session from st instead of [DefaultState].
func WithState(st State) Option {
	return func(s *Session) { s.state = st.clone() }
}

// WithLogoDir overrides the directory searched for bare logo file names.
func WithLogoDir(dir string) Option {
	return func(s *Session) { s.logoDir = func() string { return dir } }
}

// NewSession creates a session with the default branding and no style
// applied yet.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state:   DefaultState(),
		logoDir: func() string { return os.Getenv(LogoDirEnv) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "cmsstyle"})
	}
	return s
}

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }

// State returns a copy of the branding state.
func (s *Session) State() State { return s.state.clone() }

// SetEnergy sets the centre-of-mass energy caption. Zero leaves only the
// unit. Values other than 13 and 13.6 are not recognized: the caption
// becomes "???? unit" and an UNSUPPORTED_ENERGY error is returned.
func (s *Session) SetEnergy(energy float64, unit string) error {
	if unit == "" {
		unit = "TeV"
	}
	switch {
	case energy == 0:
		s.state.EnergyText = unit
	case math.Abs(energy-13) < 0.001:
		s.state.EnergyText = "13 " + unit
	case math.Abs(energy-13.6) < 0.001:
		s.state.EnergyText = "13.6 " + unit
	default:
		s.state.EnergyText = "???? " + unit
		err := errors.New(errors.ErrCodeUnsupportedEnergy, "energy %g is not recognized", energy)
		s.logger.Error("provided energy is not recognized", "energy", energy)
		return err
	}
	return nil
}

// SetLumi sets the luminosity caption to "run, value unit^{-1}". A negative
// lumi omits the value; an empty run omits the run label. round selects 0,
// 1 or 2 decimals; any other value prints the shortest representation.
func (s *Session) SetLumi(lumi float64, unit, run string, round int) {
	if unit == "" {
		unit = "fb"
	}
	var b strings.Builder
	b.WriteString(run)
	if lumi >= 0 {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatLumi(lumi, round))
		b.WriteString(" " + unit + "^{-1}")
	}
	s.state.LumiText = b.String()
}

func formatLumi(v float64, round int) string {
	switch round {
	case 0, 1, 2:
		return strconv.FormatFloat(v, 'f', round, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// SetCmsText sets the experiment text. A zero font or size keeps the
// current value.
func (s *Session) SetCmsText(text string, font int, size float64) {
	s.state.CmsText = text
	if font != 0 {
		s.state.CmsTextFont = font
	}
	if size != 0 {
		s.state.CmsTextSize = size
	}
}

var extraTextNicknames = map[string]string{
	"p":   "Preliminary",
	"s":   "Simulation",
	"su":  "Supplementary",
	"wip": "Work in progress",
	"pw":  "Private work (CMS data)",
}

// SetExtraText sets the qualifier drawn next to the experiment text. The
// nicknames "p", "s", "su", "wip" and "pw" expand to the standard labels.
// Private plots carry neither the experiment text nor the logo.
func (s *Session) SetExtraText(text string, font int) {
	if full, ok := extraTextNicknames[text]; ok {
		text = full
	}
	s.state.ExtraText = text
	if strings.Contains(text, "Private") {
		s.state.CmsText = ""
		s.state.LogoPath = ""
	}
	if font != 0 {
		s.state.ExtraTextFont = font
	}
}

// SetCmsLogoFilename selects the logo image drawn instead of the experiment
// text. An empty name disables the logo. Names that are not an existing
// file are looked up in the logo directory; when that fails the logo is
// disabled and LOGO_NOT_FOUND is returned.
func (s *Session) SetCmsLogoFilename(name string) error {
	s.state.LogoPath = ""
	if name == "" {
		return nil
	}
	if isFile(name) {
		s.state.LogoPath = name
		return nil
	}
	if dir := s.logoDir(); dir != "" {
		if p := filepath.Join(dir, name); isFile(p) {
			s.state.LogoPath = p
			return nil
		}
	}
	s.logger.Error("logo file could not be found", "file", name)
	return errors.New(errors.ErrCodeLogoNotFound, "logo file %q could not be found", name)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// AppendAdditionalInfo adds a line drawn below the extra text.
func (s *Session) AppendAdditionalInfo(text string) {
	s.state.AdditionalInfo = append(s.state.AdditionalInfo, text)
}

// ResetAdditionalInfo removes all additional info lines.
func (s *Session) ResetAdditionalInfo() { s.state.AdditionalInfo = nil }
