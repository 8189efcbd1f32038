package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/loaders"
)

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Material Files"
	filePrefix   = "file:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the description (file type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// builtin is a scene constructed in code
type builtin struct {
	info  SceneInfo
	build func(logger core.Logger) (*Scene, error)
}

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Layered Materials",
			Description: "Red and blue bases layered under a color correction",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "glitter",
			Name:        "Glitter Mix",
			Description: "Three glitter bases mixed with a shared flake table",
		},
		build: NewGlitterScene,
	},
	{
		info: SceneInfo{
			ID:          "hair",
			Name:        "Hair Layer",
			Description: "Two hair materials blended by a hair layer",
		},
		build: NewHairScene,
	},
}

// findScenesDir returns the first scenes directory reachable from the
// working directory
func findScenesDir() string {
	for _, path := range []string{"scenes", "../scenes", "../../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListSceneFiles scans the scenes directory for .mtl and .mtl.gz descriptions
func ListSceneFiles() ([]SceneInfo, error) {
	scenesDir := findScenesDir()
	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.mtl", "*.mtl.gz"} {
		matches, err := filepath.Glob(filepath.Join(scenesDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// sceneBaseName strips the description extensions from a file name
func sceneBaseName(filePath string) string {
	name := filepath.Base(filePath)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, ".mtl")
}

// ParseSceneMetadata extracts metadata from the header comments of a
// description file. Unreadable files keep the values derived from the name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	base := sceneBaseName(filePath)

	sceneInfo := SceneInfo{
		ID:       filePrefix + base,
		Name:     titleCase(base),
		Group:    fileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	r, err := loaders.OpenDescription(filePath)
	if err != nil {
		sceneInfo.DisplayName = sceneInfo.Name
		return sceneInfo, nil
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content, ok := strings.CutPrefix(line, "# ")
		if !ok {
			continue
		}
		if v, ok := strings.CutPrefix(content, "Name:"); ok {
			sceneInfo.Name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Variant:"); ok {
			sceneInfo.Variant = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Group:"); ok {
			sceneInfo.Group = strings.TrimSpace(v)
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, b := range builtins {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtinGroup,
			Scenes: builtInGroup,
		})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Load builds the scene with the given id. Built-in ids name a scene
// constructed in code; "file:<name>" ids and plain paths load a
// description from disk. The scene is updated before it is returned.
func Load(id string, logger core.Logger) (*Scene, error) {
	s, err := build(id, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Update(); err != nil {
		return nil, err
	}
	return s, nil
}

func build(id string, logger core.Logger) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.build(logger)
		}
	}

	if name, ok := strings.CutPrefix(id, filePrefix); ok {
		files, err := ListSceneFiles()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if sceneBaseName(f.FilePath) == name {
				return LoadScene(f.FilePath, logger)
			}
		}
		return nil, fmt.Errorf("%w: scene %q", ErrUnknownObject, id)
	}

	if err := loaders.ValidateFilePath(id); err != nil {
		return nil, fmt.Errorf("%w: scene %q", ErrUnknownObject, id)
	}
	return LoadScene(id, logger)
}

// titleCase converts a filename-style string to title case
// e.g., "red-over-blue" -> "Red Over Blue"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
