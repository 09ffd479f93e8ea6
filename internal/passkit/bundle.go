package passkit

// bundle.go implements the bundle build pipeline: template asset handling,
// descriptor patching, manifest generation and final archive assembly.
//
// The build is deterministic: identical inputs produce byte-identical
// descriptor, manifest and file set, so rebuilds of unchanged content can be
// verified by comparison. Determinism comes from canonical (RFC 8785) JSON
// for the descriptor and manifest, and a fixed entry order in the archive.

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/klauspost/compress/flate"
)

const (
	// ManifestFileName maps each bundle file to its content digest and is
	// the exact byte sequence handed to the signing gateway.
	ManifestFileName = "manifest.json"

	// SignatureFileName holds the detached signature over the manifest.
	SignatureFileName = "signature"

	// BundleContentType is the media type of the assembled archive.
	BundleContentType = "application/vnd.apple.pkpass"

	// descriptorSuffix identifies the content descriptor file in the
	// template set, matched case-insensitively.
	descriptorSuffix = "pass.json"
)

// TemplateSet is the static asset files a bundle is built from, keyed by
// relative filename.
type TemplateSet map[string][]byte

// FileSet is the output of a build, ready for signing: every bundle file
// except the signature, plus the canonical manifest bytes.
type FileSet struct {
	// Files holds the asset files including the patched descriptor, keyed
	// by relative filename. The manifest and signature are not included.
	Files map[string][]byte

	// Manifest is the canonical manifest JSON covering every entry in
	// Files. These exact bytes must be signed.
	Manifest []byte

	// DescriptorName is the filename of the patched content descriptor
	// within Files.
	DescriptorName string
}

// BuildInput carries everything the builder needs for one pass.
type BuildInput struct {
	Template      TemplateSet
	Content       json.RawMessage
	Serial        string
	AuthToken     string
	WebServiceURL string
}

// ParseTemplateArchive extracts a template set from a zip archive.
// Directory entries and macOS filesystem litter are skipped, and a common
// top-level directory (e.g. "template/") is stripped so entries are rooted
// at the bundle root.
func ParseTemplateArchive(data []byte) (TemplateSet, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, WrapValidationError(err, "template archive is not a valid zip")
	}

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || isJunkEntry(f.Name) {
			continue
		}
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		return nil, NewValidationError("template archive contains no files")
	}

	prefix := commonTopLevelDir(names)

	set := make(TemplateSet, len(names))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || isJunkEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, WrapValidationError(err, fmt.Sprintf("failed to open template entry %s", f.Name))
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, WrapValidationError(err, fmt.Sprintf("failed to read template entry %s", f.Name))
		}
		set[strings.TrimPrefix(f.Name, prefix)] = data
	}
	return set, nil
}

// BuildFileSet produces the canonical pre-signing file set for one pass.
//
// Any manifest or signature entries carried over from a previous build are
// stripped, the content descriptor is replaced with the supplied content
// merged with the protocol-mandated fields, and a fresh manifest is
// computed over the result.
func BuildFileSet(in BuildInput) (*FileSet, error) {
	files := make(map[string][]byte, len(in.Template))
	descriptorName := ""

	for name, data := range in.Template {
		lower := strings.ToLower(name)
		if lower == ManifestFileName || lower == SignatureFileName {
			continue
		}
		if strings.HasSuffix(lower, descriptorSuffix) {
			descriptorName = name
			continue
		}
		files[name] = data
	}

	if descriptorName == "" {
		return nil, NewValidationError("template set has no pass.json descriptor")
	}

	descriptor, err := patchDescriptor(in.Template[descriptorName], in)
	if err != nil {
		return nil, err
	}
	files[descriptorName] = descriptor

	manifest, err := buildManifest(files)
	if err != nil {
		return nil, err
	}

	return &FileSet{
		Files:          files,
		Manifest:       manifest,
		DescriptorName: descriptorName,
	}, nil
}

// patchDescriptor merges the operator-supplied content over the template
// descriptor and overlays the protocol fields, returning canonical JSON.
func patchDescriptor(template []byte, in BuildInput) ([]byte, error) {
	merged := map[string]any{}
	if len(template) > 0 {
		if err := json.Unmarshal(template, &merged); err != nil {
			return nil, WrapValidationError(err, "template pass.json is not valid JSON")
		}
	}

	if len(in.Content) > 0 {
		content := map[string]any{}
		if err := json.Unmarshal(in.Content, &content); err != nil {
			return nil, WrapValidationError(err, "pass content is not a JSON object")
		}
		for k, v := range content {
			merged[k] = v
		}
	}

	// Protocol fields always win over template and operator content.
	merged["serialNumber"] = in.Serial
	merged["authenticationToken"] = in.AuthToken
	merged["webServiceURL"] = in.WebServiceURL

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, WrapInternalError(err, "failed to marshal descriptor")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, WrapInternalError(err, "failed to canonicalize descriptor")
	}
	return canonical, nil
}

// buildManifest maps every filename to the lowercase hex SHA-1 of its
// content. SHA-1 is fixed by the client platform's bundle verifier.
func buildManifest(files map[string][]byte) ([]byte, error) {
	digests := make(map[string]string, len(files))
	for name, data := range files {
		sum := sha1.Sum(data)
		digests[name] = hex.EncodeToString(sum[:])
	}

	raw, err := json.Marshal(digests)
	if err != nil {
		return nil, WrapInternalError(err, "failed to marshal manifest")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, WrapInternalError(err, "failed to canonicalize manifest")
	}
	return canonical, nil
}

// AssembleBundle builds the final distributable archive from a signed file
// set: all asset files, the manifest and the detached signature, deflated,
// with relative paths and no directory entries. Entries are written in
// sorted name order so identical inputs assemble to identical archives.
func AssembleBundle(fs *FileSet, signature []byte) ([]byte, error) {
	if len(signature) == 0 {
		return nil, NewValidationError("missing manifest signature")
	}

	entries := make(map[string][]byte, len(fs.Files)+2)
	for name, data := range fs.Files {
		entries[name] = data
	}
	entries[ManifestFileName] = fs.Manifest
	entries[SignatureFileName] = signature

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   strings.TrimPrefix(name, "/"),
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, WrapInternalError(err, fmt.Sprintf("failed to create archive entry %s", name))
		}
		if _, err := w.Write(entries[name]); err != nil {
			return nil, WrapInternalError(err, fmt.Sprintf("failed to write archive entry %s", name))
		}
	}
	if err := zw.Close(); err != nil {
		return nil, WrapInternalError(err, "failed to finalize archive")
	}
	return buf.Bytes(), nil
}

// isJunkEntry reports filesystem litter that must never end up in a bundle.
func isJunkEntry(name string) bool {
	base := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		base = name[i+1:]
	}
	return base == ".DS_Store" || strings.HasPrefix(name, "__MACOSX/")
}

// commonTopLevelDir returns "<dir>/" when every name lives under the same
// top-level directory, otherwise "".
func commonTopLevelDir(names []string) string {
	var dir string
	for i, name := range names {
		j := strings.Index(name, "/")
		if j < 0 {
			return ""
		}
		top := name[:j+1]
		if i == 0 {
			dir = top
		} else if top != dir {
			return ""
		}
	}
	return dir
}
