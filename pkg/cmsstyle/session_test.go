package cmsstyle

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithLogoDir("")}, opts...)
	return NewSession(opts...)
}

func TestDefaultState(t *testing.T) {
	s := newTestSession(t)
	st := s.State()
	if st.CmsText != "CMS" || st.ExtraText != "Preliminary" || st.EnergyText != "13 TeV" {
		t.Errorf("unexpected default state: %+v", st)
	}
	if st.LumiText != "Run 2, 138 fb^{-1}" {
		t.Errorf("LumiText = %q", st.LumiText)
	}
	if s.Style() != nil {
		t.Error("a new session should have no style")
	}
}

func TestStateIsCopy(t *testing.T) {
	s := newTestSession(t)
	s.AppendAdditionalInfo("a")
	st := s.State()
	st.AdditionalInfo[0] = "changed"
	st.CmsText = "changed"
	if got := s.State(); got.AdditionalInfo[0] != "a" || got.CmsText != "CMS" {
		t.Errorf("session state mutated through copy: %+v", got)
	}
}

func TestSetEnergy(t *testing.T) {
	tests := []struct {
		energy  float64
		unit    string
		want    string
		wantErr bool
	}{
		{13.6, "TeV", "13.6 TeV", false},
		{13, "TeV", "13 TeV", false},
		{13.0004, "", "13 TeV", false},
		{0, "TeV", "TeV", false},
		{7.0, "TeV", "???? TeV", true},
		{8, "GeV", "???? GeV", true},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		err := s.SetEnergy(tt.energy, tt.unit)
		if got := s.State().EnergyText; got != tt.want {
			t.Errorf("SetEnergy(%v, %q) caption = %q, want %q", tt.energy, tt.unit, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("SetEnergy(%v) error = %v, wantErr %v", tt.energy, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeUnsupportedEnergy) {
			t.Errorf("SetEnergy(%v) error code = %q", tt.energy, errors.GetCode(err))
		}
	}
}

func TestSetLumi(t *testing.T) {
	tests := []struct {
		name  string
		lumi  float64
		unit  string
		run   string
		round int
		want  string
	}{
		{"one decimal", 45, "fb", "Run 3", 1, "Run 3, 45.0 fb^{-1}"},
		{"no decimals", 138.4, "fb", "Run 2", 0, "Run 2, 138 fb^{-1}"},
		{"two decimals", 1.2345, "pb", "Run 1", 2, "Run 1, 1.23 pb^{-1}"},
		{"shortest", 59.83, "fb", "2018", -1, "2018, 59.83 fb^{-1}"},
		{"no run", 45, "fb", "", -1, "45 fb^{-1}"},
		{"no lumi", -1, "fb", "Run 3", 1, "Run 3"},
		{"nothing", -1, "fb", "", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			s.SetLumi(tt.lumi, tt.unit, tt.run, tt.round)
			if got := s.State().LumiText; got != tt.want {
				t.Errorf("LumiText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetCmsText(t *testing.T) {
	s := newTestSession(t)
	s.SetCmsText("CMS-TOTEM", 0, 0)
	st := s.State()
	if st.CmsText != "CMS-TOTEM" || st.CmsTextFont != 61 || st.CmsTextSize != 0.75 {
		t.Errorf("zero font/size should keep values: %+v", st)
	}
	s.SetCmsText("CMS", 62, 0.8)
	st = s.State()
	if st.CmsTextFont != 62 || st.CmsTextSize != 0.8 {
		t.Errorf("font/size not set: %+v", st)
	}
}

func TestSetExtraText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"p", "Preliminary"},
		{"s", "Simulation"},
		{"su", "Supplementary"},
		{"wip", "Work in progress"},
		{"Internal", "Internal"},
		{"", ""},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		s.SetExtraText(tt.in, 0)
		st := s.State()
		if st.ExtraText != tt.want {
			t.Errorf("SetExtraText(%q) = %q, want %q", tt.in, st.ExtraText, tt.want)
		}
		if st.CmsText != "CMS" {
			t.Errorf("SetExtraText(%q) cleared CmsText", tt.in)
		}
	}

	s := newTestSession(t)
	s.SetExtraText("Simulation", 72)
	if got := s.State().ExtraTextFont; got != 72 {
		t.Errorf("ExtraTextFont = %d, want 72", got)
	}
}

func TestPrivateClearsBranding(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(logo, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"pw", "Private work", "Private", "Simulation Private"} {
		for _, prior := range []string{"CMS", "Other", ""} {
			s := newTestSession(t)
			s.SetCmsText(prior, 0, 0)
			if err := s.SetCmsLogoFilename(logo); err != nil {
				t.Fatal(err)
			}
			s.SetExtraText(text, 0)
			st := s.State()
			if st.CmsText != "" || st.LogoPath != "" {
				t.Errorf("SetExtraText(%q) after %q left CmsText=%q LogoPath=%q", text, prior, st.CmsText, st.LogoPath)
			}
		}
	}
}

func TestSetCmsLogoFilename(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "CMS-logo.png")
	if err := os.WriteFile(logo, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t)
	if err := s.SetCmsLogoFilename(logo); err != nil {
		t.Fatalf("existing path: %v", err)
	}
	if got := s.State().LogoPath; got != logo {
		t.Errorf("LogoPath = %q, want %q", got, logo)
	}

	err := s.SetCmsLogoFilename("CMS-logo.png")
	if !errors.Is(err, errors.ErrCodeLogoNotFound) {
		t.Errorf("bare name without directory: err = %v", err)
	}
	if got := s.State().LogoPath; got != "" {
		t.Errorf("failed lookup should clear the logo, got %q", got)
	}

	s = newTestSession(t, WithLogoDir(dir))
	if err := s.SetCmsLogoFilename("CMS-logo.png"); err != nil {
		t.Fatalf("bare name in logo dir: %v", err)
	}
	if got := s.State().LogoPath; got != logo {
		t.Errorf("LogoPath = %q, want %q", got, logo)
	}

	if err := s.SetCmsLogoFilename(""); err != nil {
		t.Errorf("empty name: %v", err)
	}
	if got := s.State().LogoPath; got != "" {
		t.Errorf("empty name should clear, got %q", got)
	}
}

func TestLogoDirFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(LogoDirEnv, dir)

	s := NewSession(WithLogger(log.New(io.Discard)))
	if err := s.SetCmsLogoFilename("logo.png"); err != nil {
		t.Fatalf("SetCmsLogoFilename: %v", err)
	}
}

func TestAdditionalInfo(t *testing.T) {
	s := newTestSession(t)
	s.AppendAdditionalInfo("ee channel")
	s.AppendAdditionalInfo("p_{T} > 20 GeV")
	if diff := cmp.Diff([]string{"ee channel", "p_{T} > 20 GeV"}, s.State().AdditionalInfo); diff != "" {
		t.Errorf("AdditionalInfo mismatch (-want +got):\n%s", diff)
	}
	s.ResetAdditionalInfo()
	if len(s.State().AdditionalInfo) != 0 {
		t.Error("ResetAdditionalInfo left lines behind")
	}
}

func TestApplyStyle(t *testing.T) {
	s := newTestSession(t)
	if err := s.Grid(true); !errors.Is(err, errors.ErrCodeStyleNotSet) {
		t.Errorf("Grid before style: err = %v", err)
	}
	if err := s.SetCMSPalette(); !errors.Is(err, errors.ErrCodeStyleNotSet) {
		t.Errorf("SetCMSPalette before style: err = %v", err)
	}

	first := s.ApplyStyle(true)
	if !first.Force || first.Name != StyleName {
		t.Errorf("style = %q force=%v", first.Name, first.Force)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"PadTopMargin", first.PadTopMargin, 0.05},
		{"PadBottomMargin", first.PadBottomMargin, 0.13},
		{"PadLeftMargin", first.PadLeftMargin, 0.16},
		{"PadRightMargin", first.PadRightMargin, 0.02},
		{"CanvasDefW", float64(first.CanvasDefW), 600},
		{"OptStat", float64(first.OptStat), 0},
		{"StatFontSize", first.StatFontSize, 0.025},
		{"X.TitleOffset", first.X.TitleOffset, 1.1},
		{"Y.TitleOffset", first.Y.TitleOffset, 1.35},
		{"Z.TitleSize", first.Z.TitleSize, 0.06},
		{"Y.LabelOffset", first.Y.LabelOffset, 0.012},
		{"X.NDivisions", float64(first.X.NDivisions), 510},
		{"PaperSizeH", first.PaperSizeH, 20},
		{"HatchesSpacing", first.HatchesSpacing, 1.3},
		{"PadTickX", float64(first.PadTickX), 1},
		{"TitleFillColor", float64(first.TitleFillColor), 10},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if err := s.Grid(true); err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if !first.PadGridX || !first.PadGridY {
		t.Error("Grid(true) did not enable the grid")
	}

	second := s.ApplyStyle(false)
	if second == first {
		t.Error("ApplyStyle should install a fresh style")
	}
	if second.Force || second.PadGridX {
		t.Error("fresh style should not inherit settings")
	}
	if s.Style() != second {
		t.Error("Style() should return the last applied style")
	}
}

func TestPalettes(t *testing.T) {
	s := newTestSession(t)
	pal, err := s.SetAlternative2DColor(1)
	if err != nil {
		t.Fatalf("SetAlternative2DColor: %v", err)
	}
	if len(pal) != 200 {
		t.Fatalf("len(palette) = %d, want 200", len(pal))
	}
	if s.Style() == nil {
		t.Fatal("SetAlternative2DColor should apply the style")
	}
	again, _ := s.SetAlternative2DColor(0.5)
	if diff := cmp.Diff(pal, again); diff != "" {
		t.Errorf("palette rebuilt (-first +second):\n%s", diff)
	}
	if s.Style().NumberContours != 200 {
		t.Errorf("NumberContours = %d", s.Style().NumberContours)
	}

	if err := s.SetCMSPalette(); err != nil {
		t.Fatalf("SetCMSPalette: %v", err)
	}
	if s.Style().PaletteName != "viridis" || s.Style().Palette != nil {
		t.Errorf("palette = %q %v", s.Style().PaletteName, s.Style().Palette)
	}
}
