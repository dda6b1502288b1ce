package cli

import (
	"fmt"
	"path/filepath"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/classify"
	"github.com/girderlab/girder/internal/config"
	"github.com/girderlab/girder/internal/dxf"
	"github.com/girderlab/girder/internal/pipeline"
	"github.com/girderlab/girder/internal/store"
)

// loadConfig resolves the effective configuration: the --config file when
// given, otherwise .girder/config.yml under rootDir, otherwise defaults.
func loadConfig(rootDir string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFromFile(cfgFile)
	} else {
		cfg, err = config.LoadConfigFromDir(rootDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// classifierFromConfig builds a classifier with the configured custom rules
// layered over the built-in conventions.
func classifierFromConfig(cfg *config.Config) *classify.Classifier {
	var opts []classify.Option

	if len(cfg.Classification.Keywords) > 0 {
		rules := make([]classify.TypeRule, 0, len(cfg.Classification.Keywords))
		for _, kw := range cfg.Classification.Keywords {
			rules = append(rules, classify.TypeRule{
				Keyword: kw.Keyword,
				Type:    bridge.ComponentType(kw.Type),
			})
		}
		opts = append(opts, classify.WithTypeRules(rules))
	}

	if len(cfg.Classification.ColorMaterials) > 0 {
		colors := make(map[int]bridge.Material, len(cfg.Classification.ColorMaterials))
		for color, name := range cfg.Classification.ColorMaterials {
			colors[color] = bridge.Material{Name: name}
		}
		opts = append(opts, classify.WithColorMaterials(colors))
	}

	return classify.New(opts...)
}

// orchestratorFromConfig builds an orchestrator honoring the configured
// unit policy, validation thresholds, and connection inference settings.
func orchestratorFromConfig(cfg *config.Config) *pipeline.Orchestrator {
	assume := pipeline.UnitMeters
	if code, ok := pipeline.UnitCodeByName(cfg.Units.UnitlessAssume); ok {
		assume = code
	}
	return pipeline.NewOrchestrator(pipeline.Options{
		UnitlessAssume:      assume,
		MinLength:           cfg.Validation.MinLengthMeters,
		MinArea:             cfg.Validation.MinAreaSqMeters,
		InferConnections:    cfg.Graph.InferConnections,
		ConnectionTolerance: cfg.Graph.ToleranceMeters,
		Verbose:             verbose,
	})
}

// parserFromConfig builds a drawing parser with the configured classifier.
func parserFromConfig(cfg *config.Config) *dxf.Parser {
	return dxf.New(classifierFromConfig(cfg))
}

// openStore opens the run store at the configured location, defaulting to
// .girder/girder.db under rootDir.
func openStore(rootDir string, cfg *config.Config) (*store.Store, error) {
	location := cfg.Storage.Location
	if location == "" {
		location = filepath.Join(rootDir, store.DefaultLocation)
	} else if !filepath.IsAbs(location) {
		location = filepath.Join(rootDir, location)
	}
	return store.Open(location)
}

// storeRun persists a finished bundle and returns the run ID.
func storeRun(st *store.Store, bundle *pipeline.Bundle, sourcePath string) (string, error) {
	runID, err := store.NewRunWriter(st.DB()).WriteRun(bundle, sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to store run: %w", err)
	}
	return runID, nil
}
