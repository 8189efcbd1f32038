package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/image/colornames"
)

// ErrInvalidPath is returned for description paths outside the allowed directories
var ErrInvalidPath = errors.New("invalid scene description path")

// Statement represents a parsed scene description statement
type Statement struct {
	Type       string           // Statement type (Material, Texture, LightSet, ...)
	Subtype    string           // Subtype (base, layer, image, ...)
	Parameters map[string]Param // Named parameters
	Line       int              // Line the statement starts on
}

// Param represents a parameter with type and value(s)
type Param struct {
	Type   string   // Parameter type (float, rgb, material, ...)
	Values []string // Parameter values as strings
}

// Description contains all parsed statements of a scene description
type Description struct {
	Materials  []Statement
	Textures   []Statement
	LightSets  []Statement
	TraceSets  []Statement
	Attributes []Statement
	Root       string // Name of the material bound to the preview geometry
}

// Parser encapsulates the state and logic for parsing scene descriptions
type Parser struct {
	desc           *Description
	statementLines []string
	statementStart int
	line           int
}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{desc: &Description{}}
}

// ParseDescription parses a scene description from an io.Reader
func ParseDescription(reader io.Reader) (*Description, error) {
	parser := NewParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.line++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if err := parser.finalize(); err != nil {
		return nil, err
	}
	return parser.desc, nil
}

// LoadDescription loads and parses a scene description file. Files ending
// in .gz are decompressed.
func LoadDescription(filename string) (*Description, error) {
	if err := ValidateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene description: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(filename), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
		}
		defer gz.Close()
		reader = gz
	}

	desc, err := ParseDescription(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

// OpenDescription opens a description file for reading its header,
// decompressing it when needed. The caller closes the returned reader.
func OpenDescription(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".gz") {
		return file, nil
	}
	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &gzipFile{Reader: gz, file: file}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

// processLine processes a single line of input
func (p *Parser) processLine(line string) error {
	line = strings.TrimSpace(line)

	// Skip empty lines and comments
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	if isStatementStart(line) {
		if err := p.processAccumulatedStatement(); err != nil {
			return err
		}
		p.statementLines = []string{line}
		p.statementStart = p.line
		return nil
	}

	if len(p.statementLines) == 0 {
		return fmt.Errorf("line %d: unexpected continuation line: %s", p.line, line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

// finalize processes any remaining accumulated statement
func (p *Parser) finalize() error {
	return p.processAccumulatedStatement()
}

// processAccumulatedStatement parses the accumulated statement lines and clears them
func (p *Parser) processAccumulatedStatement() error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return fmt.Errorf("line %d: error parsing statement '%s': %w", p.statementStart, fullStatement, err)
	}
	stmt.Line = p.statementStart
	if err := p.routeStatement(stmt); err != nil {
		return fmt.Errorf("line %d: %w", p.statementStart, err)
	}
	return nil
}

// routeStatement routes a parsed statement to the matching section of the description
func (p *Parser) routeStatement(stmt *Statement) error {
	switch stmt.Type {
	case "Material":
		if _, ok := stmt.GetStringParam("name"); !ok {
			return fmt.Errorf("material %q has no name", stmt.Subtype)
		}
		p.desc.Materials = append(p.desc.Materials, *stmt)
	case "Texture":
		if _, ok := stmt.GetStringParam("name"); !ok {
			return fmt.Errorf("texture %q has no name", stmt.Subtype)
		}
		p.desc.Textures = append(p.desc.Textures, *stmt)
	case "LightSet":
		p.desc.LightSets = append(p.desc.LightSets, *stmt)
	case "TraceSet":
		p.desc.TraceSets = append(p.desc.TraceSets, *stmt)
	case "Attribute":
		if len(stmt.Parameters) == 0 {
			return fmt.Errorf("attribute statement has no parameters")
		}
		p.desc.Attributes = append(p.desc.Attributes, *stmt)
	case "Root":
		if stmt.Subtype == "" {
			return fmt.Errorf("root statement needs a material name")
		}
		p.desc.Root = stmt.Subtype
	}
	return nil
}

// ValidateFilePath validates a description path for security issues. Only
// files under a scenes/ directory or the temp directory are allowed.
func ValidateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidPath)
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("%w: null bytes not allowed", ErrInvalidPath)
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))
	tempDir := filepath.ToSlash(os.TempDir())

	if !strings.HasPrefix(cleanPath, "scenes/") &&
		!strings.HasPrefix(cleanPath, tempDir) &&
		!strings.Contains(cleanPath, "scenes/") {
		return fmt.Errorf("%w: file path must be in scenes/ directory", ErrInvalidPath)
	}

	if strings.Contains(cleanPath, "..") && !strings.Contains(cleanPath, "scenes/") {
		return fmt.Errorf("%w: directory traversal not allowed", ErrInvalidPath)
	}

	lower := strings.ToLower(cleanPath)
	if !strings.HasSuffix(lower, ".mtl") && !strings.HasSuffix(lower, ".mtl.gz") {
		return fmt.Errorf("%w: only .mtl and .mtl.gz files are allowed", ErrInvalidPath)
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("%w: maximum 512 characters allowed", ErrInvalidPath)
	}
	return nil
}

// tokenize splits a line respecting quoted strings and brackets
func tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	for _, char := range line {
		switch char {
		case '"':
			current.WriteRune(char)
			if inBrackets {
				continue
			}
			if inQuotes {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			inQuotes = !inQuotes
		case '[':
			if !inQuotes {
				if current.Len() > 0 {
					tokens = append(tokens, current.String())
					current.Reset()
				}
				inBrackets = true
			}
			current.WriteRune(char)
		case ']':
			current.WriteRune(char)
			if !inQuotes && inBrackets {
				tokens = append(tokens, current.String())
				current.Reset()
				inBrackets = false
			}
		case ' ', '\t':
			if inQuotes || inBrackets {
				current.WriteRune(char)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"")
}

// parseStatement parses a single statement: Type "subtype" "type name" value ...
func parseStatement(line string) (*Statement, error) {
	parts := tokenize(line)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &Statement{
		Type:       parts[0],
		Parameters: make(map[string]Param),
	}

	parts = parts[1:]
	// A quoted token with a single word is the subtype, a quoted pair is
	// the first parameter
	if isQuoted(parts[0]) && len(strings.Fields(strings.Trim(parts[0], "\""))) == 1 {
		stmt.Subtype = strings.Trim(parts[0], "\"")
		parts = parts[1:]
	}

	for i := 0; i < len(parts); {
		if !isQuoted(parts[i]) {
			return nil, fmt.Errorf("unexpected value %s", parts[i])
		}
		paramParts := strings.Fields(strings.Trim(parts[i], "\""))
		if len(paramParts) != 2 {
			return nil, fmt.Errorf("invalid parameter declaration %s", parts[i])
		}
		paramType, paramName := paramParts[0], paramParts[1]
		i++

		if i >= len(parts) {
			return nil, fmt.Errorf("parameter %s has no value", paramName)
		}

		var values []string
		if strings.HasPrefix(parts[i], "[") && strings.HasSuffix(parts[i], "]") {
			for _, v := range strings.Fields(strings.Trim(parts[i], "[] ")) {
				values = append(values, strings.Trim(v, "\""))
			}
		} else {
			values = []string{strings.Trim(parts[i], "\"")}
		}
		i++

		stmt.Parameters[paramName] = Param{Type: paramType, Values: values}
	}

	return stmt, nil
}

// isStatementStart determines if a line starts a new statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Material", "Texture", "LightSet", "TraceSet", "Attribute", "Root",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}

// Has reports whether the statement carries a parameter
func (stmt *Statement) Has(name string) bool {
	_, ok := stmt.Parameters[name]
	return ok
}

// ParamType returns the declared type of a parameter
func (stmt *Statement) ParamType(name string) string {
	return stmt.Parameters[name].Type
}

// GetFloatParam extracts a float parameter from a statement
func (stmt *Statement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetIntParam extracts an integer parameter from a statement
func (stmt *Statement) GetIntParam(name string) (int, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetBoolParam extracts a bool parameter from a statement
func (stmt *Statement) GetBoolParam(name string) (bool, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return false, false
	}
	val, err := strconv.ParseBool(param.Values[0])
	if err != nil {
		return false, false
	}
	return val, true
}

// GetStringParam extracts a string parameter from a statement
func (stmt *Statement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// GetStringsParam extracts every value of a parameter
func (stmt *Statement) GetStringsParam(name string) []string {
	return stmt.Parameters[name].Values
}

// GetRGBParam extracts an RGB color parameter from a statement
func (stmt *Statement) GetRGBParam(name string) (core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) < 3 {
		return core.Vec3{}, false
	}
	r, err1 := strconv.ParseFloat(param.Values[0], 64)
	g, err2 := strconv.ParseFloat(param.Values[1], 64)
	b, err3 := strconv.ParseFloat(param.Values[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return core.Vec3{}, false
	}
	return core.Vec3{X: r, Y: g, Z: b}, true
}

// GetColorParam extracts a color given either as "rgb" values or as a
// "color" name from the SVG palette
func (stmt *Statement) GetColorParam(name string) (core.Vec3, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return core.Vec3{}, fmt.Errorf("missing color %s", name)
	}
	switch param.Type {
	case "rgb":
		if c, ok := stmt.GetRGBParam(name); ok {
			return c, nil
		}
		return core.Vec3{}, fmt.Errorf("%s: rgb needs three numbers, got %v", name, param.Values)
	case "color":
		if len(param.Values) == 0 {
			return core.Vec3{}, fmt.Errorf("%s: missing color name", name)
		}
		return NamedColor(param.Values[0])
	}
	return core.Vec3{}, fmt.Errorf("%s: expected rgb or color, got %s", name, param.Type)
}

// NamedColor looks up an SVG color name
func NamedColor(name string) (core.Vec3, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return core.Vec3{}, fmt.Errorf("unknown color name %q", name)
	}
	return rgbaToVec3(c), nil
}

func rgbaToVec3(c color.RGBA) core.Vec3 {
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
