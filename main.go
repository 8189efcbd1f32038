package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/df07/go-layered-materials/pkg/renderer"
	"github.com/df07/go-layered-materials/pkg/scene"
)

func main() {
	sceneID := flag.String("scene", "default", "Built-in scene, material file name or path to a .mtl file")
	materialName := flag.String("material", "", "Material to preview (default: the scene root)")
	width := flag.Int("width", 256, "Swatch width")
	height := flag.Int("height", 256, "Swatch height")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	samples := flag.Int("samples", 16, "Maximum samples per pixel")
	passes := flag.Int("passes", 3, "Number of progressive passes")
	out := flag.String("out", "", "Output PNG (default: output/<scene>/swatch_<timestamp>.png)")
	inspect := flag.Bool("inspect", false, "Print the parameters resolved at the swatch center instead of rendering")
	list := flag.Bool("list", false, "List the available scenes")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Layered Materials")
		fmt.Println("Usage: materials [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/swatch_<timestamp>.png")
		return
	}

	logger := core.NewDefaultLogger("materials", *debug)

	if *list {
		if err := listScenes(); err != nil {
			logger.Errorf("Error listing scenes: %v", err)
			os.Exit(1)
		}
		return
	}

	sceneObj, err := createScene(*sceneID, logger)
	if err != nil {
		logger.Errorf("Error loading scene: %v", err)
		os.Exit(1)
	}

	m, err := sceneObj.Material(*materialName)
	if err != nil {
		logger.Errorf("Error selecting material: %v", err)
		os.Exit(1)
	}

	view := renderer.DefaultSwatchConfig()
	view.Width = *width
	view.Height = *height

	if *inspect {
		if err := printParameters(m, sceneObj, view); err != nil {
			logger.Errorf("Error inspecting %s: %v", m.Name(), err)
			os.Exit(1)
		}
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = *samples
	config.MaxPasses = *passes
	config.NumWorkers = *workers

	startTime := time.Now()
	img, stats, err := renderer.RenderSwatch(context.Background(), m, sceneObj, view, config, logger)
	if err != nil {
		logger.Errorf("Error rendering %s: %v", m.Name(), err)
		os.Exit(1)
	}

	logger.Infof("Render completed in %v", time.Since(startTime))
	logger.Infof("Samples per pixel: %.1f (range %d - %d)", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	logger.Infof("Average luminance: %.4f", stats.AverageLuminance)
	if stats.FailedSamples > 0 {
		logger.Warnf("%d samples could not be resolved", stats.FailedSamples)
	}

	filename := *out
	if filename == "" {
		outputDir := createOutputDir(*sceneID)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			logger.Errorf("Error creating output directory: %v", err)
			os.Exit(1)
		}
		filename = filepath.Join(outputDir, fmt.Sprintf("swatch_%s.png", time.Now().Format("20060102_150405")))
	}

	file, err := os.Create(filename)
	if err != nil {
		logger.Errorf("Error creating file: %v", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		logger.Errorf("Error saving PNG: %v", err)
		os.Exit(1)
	}

	logger.Infof("Swatch of %s saved as %s", m.Name(), filename)
}

// createScene loads a scene by built-in id, "file:" id, material file name
// or path
func createScene(id string, logger core.Logger) (*scene.Scene, error) {
	s, err := scene.Load(id, logger)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, scene.ErrUnknownObject) || id == "" || strings.Contains(id, ":") || strings.ContainsAny(id, `/\`) {
		return nil, err
	}
	return scene.Load("file:"+id, logger)
}

// createOutputDir returns the output directory for a scene id
func createOutputDir(id string) string {
	name := strings.TrimPrefix(id, "file:")
	if strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".mtl") {
		name = filepath.Base(name)
		name = strings.TrimSuffix(name, ".gz")
		name = strings.TrimSuffix(name, ".mtl")
	}
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name)
}

func listScenes() error {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range scenes.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// resolvedSample is the parameter summary printed by -inspect
type resolvedSample struct {
	Material      string     `json:"material"`
	Presence      float64    `json:"presence"`
	Albedo        [3]float64 `json:"albedo"`
	Emission      [3]float64 `json:"emission"`
	Specular      float64    `json:"specular"`
	Roughness     float64    `json:"roughness"`
	Metallic      float64    `json:"metallic"`
	Transmission  float64    `json:"transmission"`
	Clearcoat     float64    `json:"clearcoat"`
	Fuzz          float64    `json:"fuzz"`
	Glitter       bool       `json:"glitter"`
	HairWeight    float64    `json:"hairWeight"`
	SpecularModel string     `json:"specularModel"`
	Subsurface    string     `json:"subsurface"`
	ThinGeometry  bool       `json:"thinGeometry"`
}

// printParameters resolves m at the center of the swatch and prints the
// result as JSON
func printParameters(m material.Layerable, states renderer.StateSource, view renderer.SwatchConfig) error {
	state, hit := renderer.NewSwatch(m, states, view).StateAt(view.Width/2, view.Height/2)
	if !hit {
		return fmt.Errorf("swatch center misses the sphere")
	}

	p, u, ok := material.Resolve(m, state)
	if !ok {
		return fmt.Errorf("material %s could not be resolved", m.Name())
	}

	sample := resolvedSample{
		Material:      m.Name(),
		Presence:      m.ResolvePresence(state),
		Albedo:        [3]float64{p.Diffuse.Albedo.X, p.Diffuse.Albedo.Y, p.Diffuse.Albedo.Z},
		Emission:      [3]float64{p.Emission.X, p.Emission.Y, p.Emission.Z},
		Specular:      p.Specular,
		Roughness:     p.Roughness,
		Metallic:      p.Metallic,
		Transmission:  p.Transmission.Weight,
		Clearcoat:     p.OuterSpecular.Weight,
		Fuzz:          p.Fuzz.Weight,
		Glitter:       p.Glitter != nil,
		HairWeight:    p.Hair.Weight,
		SpecularModel: u.SpecularModel.String(),
		Subsurface:    u.Subsurface.String(),
		ThinGeometry:  u.ThinGeometry,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sample)
}
