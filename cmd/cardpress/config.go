// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/history"
	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/pipeline"
	"github.com/pdiddy/cardpress/internal/publish"
	"github.com/pdiddy/cardpress/internal/style"
	"github.com/pdiddy/cardpress/pkg/types"
)

// setDefaults registers every config key so that environment variables
// and Unmarshal see it.
func setDefaults(v *viper.Viper) {
	r := types.DefaultRenderConfig()
	v.SetDefault("render.margin_profile", string(r.MarginProfile))
	v.SetDefault("render.margins.top", 0.0)
	v.SetDefault("render.margins.right", 0.0)
	v.SetDefault("render.margins.bottom", 0.0)
	v.SetDefault("render.margins.left", 0.0)
	v.SetDefault("render.title_page", r.TitlePage)
	v.SetDefault("render.title", r.Title)
	v.SetDefault("render.subtitle", r.Subtitle)
	v.SetDefault("render.name_mode", string(r.NameMode))
	v.SetDefault("render.cadence", r.Cadence)
	v.SetDefault("render.divider", string(r.Divider))

	b := types.DefaultBrand()
	v.SetDefault("brand.icon", b.Icon)
	v.SetDefault("brand.name", b.Name)
	v.SetDefault("brand.subtitle", b.Subtitle)
	v.SetDefault("brand.rating", b.Rating)
	v.SetDefault("brand.rating_count", b.RatingCount)
	v.SetDefault("brand.url", b.URL)

	v.SetDefault("ai.model", items.DefaultModel)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.mode", string(types.AIModeDocument))
	v.SetDefault("ai.converter", string(types.BackendNative))
	v.SetDefault("ai.max_pages", items.DefaultMaxPages)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", history.DefaultPath())

	v.SetDefault("publish.target", "")
	v.SetDefault("publish.region", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("styles_file", "")
}

// loadConfig merges defaults, the config file, the environment and bound
// flags held by v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	switch c.AI.Mode {
	case types.AIModeDocument, types.AIModeText:
	default:
		return types.Config{}, fmt.Errorf("unknown ai.mode %q", c.AI.Mode)
	}
	return c, nil
}

// newAssembler builds the card assembler of c, loading style overrides
// when c names a styles file.
func newAssembler(c types.Config) (*cards.Assembler, error) {
	reg := style.Default()
	if c.StylesFile != "" {
		loaded, err := style.Load(c.StylesFile)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}
	if _, err := cards.MarginsFor(c.Render); err != nil {
		return nil, err
	}
	return &cards.Assembler{Config: c.Render, Styles: reg, Brand: c.Brand}, nil
}

// newPipeline wires the collaborators named by c. The returned func closes
// the history store.
func newPipeline(ctx context.Context, c types.Config) (*pipeline.Pipeline, func(), error) {
	asm, err := newAssembler(c)
	if err != nil {
		return nil, nil, err
	}
	p := &pipeline.Pipeline{
		Assembler: asm,
		Sources:   items.Options{AI: c.AI},
	}

	pub, err := publish.New(ctx, c.Publish)
	if err != nil {
		return nil, nil, err
	}
	p.Publisher = pub

	closeFn := func() {}
	if c.History.Enabled {
		store, err := history.Open(c.History.Path)
		if err != nil {
			logger := logging.GetLogger("cli")
			logger.Warn().Err(err).Str("path", c.History.Path).Msg("job history disabled")
		} else {
			p.Recorder = store
			closeFn = func() { store.Close() }
		}
	}
	return p, closeFn, nil
}
