package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/ledmapper/internal/config"
	"github.com/example/ledmapper/internal/layout"
	"github.com/example/ledmapper/internal/mapping"
	"github.com/example/ledmapper/internal/pattern"
	"github.com/example/ledmapper/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		w          = flag.Int("w", 16, "grid width")
		h          = flag.Int("h", 16, "grid height")
		fps        = flag.Int("fps", 30, "preview frames per second")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		patPath    = flag.String("pattern", "", "pattern file to serve")
		wiringMode = flag.String("wiring", "row_major", "wiring mode: row_major | serpentine | column_major | column_serpentine")
		dataIn     = flag.String("data-in", "left_top", "data-in corner: left_top | left_bottom | right_top | right_bottom")
		dump       = flag.Bool("dump", false, "print the mapping table and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	// ---- Effective params (config overrides flags where available) ----
	eW, eH, eFPS, eAddr := *w, *h, *fps, *addr
	ePattern := *patPath
	eWiring := layout.WiringMode(*wiringMode)
	eDataIn := layout.Corner(*dataIn)
	var eFlipX, eFlipY bool

	if cfg != nil {
		if cfg.Grid.W > 0 {
			eW = cfg.Grid.W
		}
		if cfg.Grid.H > 0 {
			eH = cfg.Grid.H
		}
		if cfg.FPS > 0 {
			eFPS = cfg.FPS
		}
		if cfg.Addr != "" {
			eAddr = cfg.Addr
		}
		if cfg.Pattern != "" {
			ePattern = cfg.Pattern
		}
		if cfg.Wiring.Mode != "" {
			eWiring = cfg.Wiring.Mode
		}
		if cfg.Wiring.DataIn != "" {
			eDataIn = cfg.Wiring.DataIn
		}
		eFlipX, eFlipY = cfg.Wiring.FlipX, cfg.Wiring.FlipY
	}

	// ---- Pattern: load from file, or start from a blank rectangular one ----
	var pat *pattern.Pattern
	if ePattern != "" {
		p, err := pattern.Load(ePattern)
		if err != nil {
			log.Fatal().Err(err).Str("path", ePattern).Msg("pattern load failed")
		}
		pat = p
		log.Info().Str("name", pat.Name).
			Str("layout", string(pat.Metadata.Type)).
			Int("leds", pat.Metadata.LEDCount()).
			Msg("pattern loaded")
	} else {
		meta := pattern.Metadata{
			Width:  eW,
			Height: eH,
			Config: layout.Config{
				Type:   layout.Rectangular,
				Wiring: eWiring,
				DataIn: eDataIn,
				FlipX:  eFlipX,
				FlipY:  eFlipY,
			},
		}
		p, err := pattern.New("untitled", meta)
		if err != nil {
			log.Fatal().Err(err).Msg("pattern init failed")
		}
		p.Frames = []pattern.Frame{{Pixels: make([]pattern.RGB, eW*eH), DurationMS: 100}}
		pat = p
	}

	if *dump {
		table, err := mapping.Ensure(pat.Metadata.Mapping, &pat.Metadata.Config, pat.Metadata.Width, pat.Metadata.Height)
		if err != nil {
			log.Fatal().Err(err).Msg("mapping build failed")
		}
		for _, e := range table.Entries() {
			fmt.Printf("%d\t%d\t%d\n", e.LED, e.X, e.Y)
		}
		return
	}

	// ---- Preview server ----
	state := ws.NewState(pat, eFPS)
	go state.RunPreviewLoop()

	http.HandleFunc("/ws/frames", state.HandleFramesWS)
	http.HandleFunc("/ws/diag", state.HandleDiagWS)
	http.HandleFunc("/ws/control", state.HandleControlWS)
	http.HandleFunc("/health", state.HandleHealth)

	log.Info().Str("addr", eAddr).Int("fps", eFPS).Msg("preview server listening")
	if err := http.ListenAndServe(eAddr, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
