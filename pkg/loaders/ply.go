package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidPLY is returned for malformed or unsupported PLY files
var ErrInvalidPLY = errors.New("invalid PLY file")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the vertex positions and polygon faces of a PLY file
type PLYData struct {
	Vertices []core.Vec3
	Faces    [][]int // Vertex indices per face, in winding order
}

// LoadPLY loads a PLY file and returns its vertices and faces
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY parses PLY data in ASCII or binary encoding. Only vertex x, y, z
// and the face vertex index list are kept; other properties are skipped.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var source plySource
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		source = &asciiSource{scanner: scanner}
	case "binary_little_endian":
		source = &binarySource{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		source = &binarySource{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format %q: %w", header.Format, ErrInvalidPLY)
	}

	data, err := readPLYBody(source, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader reads header lines up to end_header, leaving the reader at
// the first byte of the body
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number: %w", ErrInvalidPLY)
	}

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", ErrInvalidPLY)
		}
		line := strings.TrimSpace(raw)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q: %w", line, ErrInvalidPLY)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q: %w", line, ErrInvalidPLY)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count %q: %w", parts[2], ErrInvalidPLY)
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q: %w", currentElement, ErrInvalidPLY)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	for _, axis := range []string{"x", "y", "z"} {
		if !hasProperty(header.VertexProps, axis) {
			return nil, fmt.Errorf("vertex property %q missing: %w", axis, ErrInvalidPLY)
		}
	}
	if header.FaceCount > 0 && faceIndexProperty(header.FaceProps) < 0 {
		return nil, fmt.Errorf("face vertex index list missing: %w", ErrInvalidPLY)
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition: %w", ErrInvalidPLY)
	}

	prop := PLYProperty{}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition: %w", ErrInvalidPLY)
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}
	return prop, nil
}

func hasProperty(props []PLYProperty, name string) bool {
	for _, p := range props {
		if p.Name == name && !p.IsList {
			return true
		}
	}
	return false
}

func faceIndexProperty(props []PLYProperty) int {
	for i, p := range props {
		if p.IsList && (p.Name == "vertex_indices" || p.Name == "vertex_index") {
			return i
		}
	}
	return -1
}

// plySource reads scalar values from the body in either encoding
type plySource interface {
	scalar(dataType string) (float64, error)
}

type asciiSource struct {
	scanner *bufio.Scanner
}

func (s *asciiSource) scalar(string) (float64, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(s.scanner.Text(), 64)
}

type binarySource struct {
	reader io.Reader
	order  binary.ByteOrder
}

func (s *binarySource) scalar(dataType string) (float64, error) {
	switch dataType {
	case "char", "int8":
		var v int8
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "uchar", "uint8":
		var v uint8
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "short", "int16":
		var v int16
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "ushort", "uint16":
		var v uint16
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "int", "int32":
		var v int32
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "uint", "uint32":
		var v uint32
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "float", "float32":
		var v float32
		err := binary.Read(s.reader, s.order, &v)
		return float64(v), err
	case "double", "float64":
		var v float64
		err := binary.Read(s.reader, s.order, &v)
		return v, err
	default:
		return 0, fmt.Errorf("unsupported property type %q: %w", dataType, ErrInvalidPLY)
	}
}

// readProperty reads one property, returning the list items for list properties
func readProperty(source plySource, prop PLYProperty) (float64, []float64, error) {
	if !prop.IsList {
		v, err := source.scalar(prop.Type)
		return v, nil, err
	}
	count, err := source.scalar(prop.ListType)
	if err != nil {
		return 0, nil, err
	}
	if count < 0 || count != math.Trunc(count) {
		return 0, nil, fmt.Errorf("invalid list length %g: %w", count, ErrInvalidPLY)
	}
	items := make([]float64, int(count))
	for i := range items {
		if items[i], err = source.scalar(prop.DataType); err != nil {
			return 0, nil, err
		}
	}
	return 0, items, nil
}

func readPLYBody(source plySource, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([][]int, 0, header.FaceCount),
	}

	for i := 0; i < header.VertexCount; i++ {
		var xyz [3]float64
		for _, prop := range header.VertexProps {
			v, _, err := readProperty(source, prop)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				xyz[0] = v
			case "y":
				xyz[1] = v
			case "z":
				xyz[2] = v
			}
		}
		data.Vertices = append(data.Vertices, core.NewVec3(xyz[0], xyz[1], xyz[2]))
	}

	indexProp := faceIndexProperty(header.FaceProps)
	for i := 0; i < header.FaceCount; i++ {
		var face []int
		for j, prop := range header.FaceProps {
			_, items, err := readProperty(source, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
			}
			if j != indexProp {
				continue
			}
			face = make([]int, len(items))
			for k, item := range items {
				index := int(item)
				if index < 0 || index >= len(data.Vertices) {
					return nil, fmt.Errorf("face %d: vertex index %d out of range: %w", i, index, ErrInvalidPLY)
				}
				face[k] = index
			}
		}
		data.Faces = append(data.Faces, face)
	}

	return data, nil
}
