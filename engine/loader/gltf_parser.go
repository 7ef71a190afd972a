package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"strings"
)

var (
	errInvalidVersion   = errors.New("loader: glTF version must be 2.x")
	errInvalidGLB       = errors.New("loader: invalid GLB container")
	errBufferTooShort   = errors.New("loader: buffer shorter than declared")
	errAccessorNotFloat = errors.New("loader: accessor is not FLOAT")
)

// parseDocument decodes a .gltf JSON document or a GLB container and resolves its buffers.
// External buffer URIs are read from fsys relative to dir.
func parseDocument(data []byte, glb bool, fsys fs.FS, dir string) (*gltfDocument, error) {
	var bin []byte
	if glb || (len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic) {
		var err error
		if data, bin, err = splitGLB(data); err != nil {
			return nil, err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: glTF json: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidVersion
	}

	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && bin != nil:
			buf.data = bin
		case buf.URI == "":
			return nil, fmt.Errorf("loader: buffer %d has no data", i)
		case strings.HasPrefix(buf.URI, "data:"):
			d, err := decodeDataURI(buf.URI)
			if err != nil {
				return nil, fmt.Errorf("loader: buffer %d: %w", i, err)
			}
			buf.data = d
		default:
			if fsys == nil {
				return nil, fmt.Errorf("loader: buffer %d: external uri %q without a file system", i, buf.URI)
			}
			d, err := fs.ReadFile(fsys, path.Join(dir, buf.URI))
			if err != nil {
				return nil, fmt.Errorf("loader: buffer %d: %w", i, err)
			}
			buf.data = d
		}
		if len(buf.data) < buf.ByteLength {
			return nil, fmt.Errorf("buffer %d: %w", i, errBufferTooShort)
		}
	}
	return &doc, nil
}

func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	r := bytes.NewReader(data)
	var h glbHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errInvalidGLB, err)
	}
	if h.Magic != glbMagic || h.Version != glbVersion {
		return nil, nil, errInvalidGLB
	}
	for {
		var ch glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("%w: %v", errInvalidGLB, err)
		}
		chunk := make([]byte, ch.Length)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", errInvalidGLB, err)
		}
		switch ch.Type {
		case glbChunkJSON:
			jsonChunk = chunk
		case glbChunkBIN:
			binChunk = chunk
		}
	}
	if jsonChunk == nil {
		return nil, nil, fmt.Errorf("%w: missing JSON chunk", errInvalidGLB)
	}
	return jsonChunk, binChunk, nil
}

// decodeDataURI decodes a base64 data URI such as "data:application/octet-stream;base64,AAAA".
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data uri %q", meta)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// componentCount returns the number of components of an accessor element type.
func componentCount(typ string) int {
	switch typ {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	}
	return 0
}

// readFloats returns the FLOAT components of an accessor, honoring buffer view strides.
func (d *gltfDocument) readFloats(index int) ([]float32, error) {
	if index < 0 || index >= len(d.Accessors) {
		return nil, fmt.Errorf("loader: accessor %d out of range", index)
	}
	acc := d.Accessors[index]
	if acc.ComponentType != gltfComponentFloat {
		return nil, errAccessorNotFloat
	}
	n := componentCount(acc.Type)
	out := make([]float32, acc.Count*n)
	if acc.BufferView == nil {
		// Accessors without a view read as zeros.
		return out, nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return nil, fmt.Errorf("loader: accessor %d: buffer view %d out of range", index, *acc.BufferView)
	}
	view := d.BufferViews[*acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(d.Buffers) {
		return nil, fmt.Errorf("loader: buffer view %d: buffer %d out of range", *acc.BufferView, view.Buffer)
	}
	data := d.Buffers[view.Buffer].data

	stride := n * 4
	if view.ByteStride != nil && *view.ByteStride > 0 {
		stride = *view.ByteStride
	}
	base := view.ByteOffset + acc.ByteOffset
	for e := range acc.Count {
		at := base + e*stride
		if at+n*4 > len(data) || at+n*4 > view.ByteOffset+view.ByteLength {
			return nil, fmt.Errorf("loader: accessor %d: %w", index, errBufferTooShort)
		}
		for c := range n {
			out[e*n+c] = math.Float32frombits(binary.LittleEndian.Uint32(data[at+c*4:]))
		}
	}
	return out, nil
}
