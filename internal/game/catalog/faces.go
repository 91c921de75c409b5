package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
)

//go:embed faces.yaml
var baseFaces []byte

// Face is the printed side of a card as stored in YAML and in the database.
type Face struct {
	Name    string       `yaml:"name"`
	Color   string       `yaml:"color"`
	Age     int          `yaml:"age"`
	Symbols []FaceSymbol `yaml:"symbols"`
}

// FaceSymbol is one icon slot of a Face.
type FaceSymbol struct {
	Type     string `yaml:"type"`
	Position string `yaml:"position"`
}

type faceFile struct {
	Cards []Face `yaml:"cards"`
}

// Card converts the face into a card value.
func (f Face) Card() (*cards.Card, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, errors.New("card face without a name")
	}
	color, err := cards.ParseColor(f.Color)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if f.Age < 1 || f.Age > 10 {
		return nil, fmt.Errorf("%s: age %d out of range", name, f.Age)
	}
	symbols := make([]cards.Symbol, 0, len(f.Symbols))
	used := make(map[cards.Position]bool, len(f.Symbols))
	for _, s := range f.Symbols {
		typ, err := cards.ParseSymbol(s.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pos, err := cards.ParsePosition(s.Position)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if used[pos] {
			return nil, fmt.Errorf("%s: position %s used twice", name, pos)
		}
		used[pos] = true
		symbols = append(symbols, cards.Symbol{Type: typ, Position: pos})
	}
	return cards.New(name, color, f.Age, symbols...), nil
}

// FaceOf renders a card back into its face.
func FaceOf(c *cards.Card) Face {
	f := Face{Name: c.Name, Color: c.Color.String(), Age: c.Age}
	for _, s := range c.Symbols {
		f.Symbols = append(f.Symbols, FaceSymbol{Type: s.Type.String(), Position: s.Position.String()})
	}
	return f
}

// ParseFaces decodes a YAML faces document. Unknown fields are rejected.
func ParseFaces(data []byte) ([]Face, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file faceFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode faces: %w", err)
	}
	return file.Cards, nil
}

// LoadFaces reads a faces file and converts every entry into a card.
func LoadFaces(path string) ([]*cards.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faces: %w", err)
	}
	faces, err := ParseFaces(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return FaceCards(faces)
}

// BaseFaces returns the bundled faces of the base deck.
func BaseFaces() ([]Face, error) {
	return ParseFaces(baseFaces)
}

// FaceCards converts faces into cards, rejecting repeated names.
func FaceCards(faces []Face) ([]*cards.Card, error) {
	out := make([]*cards.Card, 0, len(faces))
	seen := make(map[string]bool, len(faces))
	for _, f := range faces {
		c, err := f.Card()
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("card %s listed twice", c.Name)
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out, nil
}
