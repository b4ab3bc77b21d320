package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/scope"
	"github.com/opmodel/release/internal/version"
)

// DescriptorName is the file name of the project descriptor.
const DescriptorName = "pom.xml"

// defaultPackaging applies when the descriptor declares none.
const defaultPackaging = "jar"

// POM is a Maven-style project whose pom.xml is edited in place. Every Save
// pushes the previous file content onto an undo stack.
type POM struct {
	fs  billy.Filesystem
	doc *etree.Document

	// disk is the descriptor content on disk; rendered is how the parsed
	// form of disk renders, the baseline for detecting edits.
	disk     []byte
	rendered []byte
	history  [][]byte

	scope scope.Scope
}

// Option configures Open and Load.
type Option func(*options)

type options struct {
	parent scope.Scope
}

// WithParentScope encloses the project scope in parent.
func WithParentScope(parent scope.Scope) Option {
	return func(o *options) { o.parent = parent }
}

// Open loads the project in dir.
func Open(dir string, opts ...Option) (*POM, error) {
	return Load(osfs.New(dir), opts...)
}

// Load loads the project whose descriptor sits at the root of fsys.
func Load(fsys billy.Filesystem, opts ...Option) (*POM, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	location := fsys.Join(fsys.Root(), DescriptorName)
	data, err := util.ReadFile(fsys, DescriptorName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oerrors.NewNotFoundError("no project descriptor found", location,
			"Run release from the project directory or pass --dir.")
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}

	doc, err := parseDescriptor(location, data)
	if err != nil {
		return nil, err
	}

	p := &POM{fs: fsys, doc: doc, disk: data}
	if p.rendered, err = doc.WriteToBytes(); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", location, err)
	}
	if p.artifactID() == "" {
		return nil, oerrors.NewUserError("project descriptor declares no artifactId", location,
			"Add an <artifactId> element to the project.")
	}
	p.scope = newProjectScope(p, o.parent)
	return p, nil
}

func parseDescriptor(location string, data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, oerrors.Wrapf(oerrors.ErrFormat, "parsing %s: %v", location, err)
	}
	if root := doc.Root(); root == nil || root.Tag != "project" {
		return nil, oerrors.Wrapf(oerrors.ErrFormat, "parsing %s: root element must be <project>", location)
	}
	return doc, nil
}

// Name returns the artifactId.
func (p *POM) Name() string {
	return p.artifactID()
}

// GroupID returns the groupId, inherited from the parent element when the
// project declares none.
func (p *POM) GroupID() string {
	if g := childText(p.doc.Root(), "groupId"); g != "" {
		return g
	}
	if parent := p.doc.Root().SelectElement("parent"); parent != nil {
		return childText(parent, "groupId")
	}
	return ""
}

// Packaging returns the declared packaging, "jar" by default.
func (p *POM) Packaging() string {
	if pk := childText(p.doc.Root(), "packaging"); pk != "" {
		return pk
	}
	return defaultPackaging
}

func (p *POM) artifactID() string {
	return childText(p.doc.Root(), "artifactId")
}

// Properties returns the <properties> entries.
func (p *POM) Properties() map[string]string {
	props := make(map[string]string)
	el := p.doc.Root().SelectElement("properties")
	if el == nil {
		return props
	}
	for _, child := range el.ChildElements() {
		props[child.Tag] = strings.TrimSpace(child.Text())
	}
	return props
}

// Version implements Project. A version of the form ${name} is read from the
// named property. A project that only inherits its parent's version reports
// that version.
func (p *POM) Version() (*version.Version, error) {
	el := p.versionElement(true)
	if el == nil {
		return nil, nil
	}
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return nil, nil
	}
	v, err := version.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.location(), err)
	}
	return v, nil
}

// SetVersion implements Project. A project without its own <version> gets
// one right after its <artifactId>.
func (p *POM) SetVersion(v *version.Version) (bool, error) {
	el := p.versionElement(false)
	if el == nil {
		root := p.doc.Root()
		el = etree.NewElement("version")
		root.InsertChildAt(root.SelectElement("artifactId").Index()+1, el)
	}
	if strings.TrimSpace(el.Text()) == v.String() {
		return false, nil
	}
	el.SetText(v.String())
	return true, nil
}

// versionElement returns the element holding the version text, following a
// ${property} indirection. With inherited set, a missing <version> falls
// back to the parent's.
func (p *POM) versionElement(inherited bool) *etree.Element {
	root := p.doc.Root()
	el := root.SelectElement("version")
	if el == nil {
		if !inherited {
			return nil
		}
		parent := root.SelectElement("parent")
		if parent == nil {
			return nil
		}
		return parent.SelectElement("version")
	}

	text := strings.TrimSpace(el.Text())
	if name, ok := strings.CutPrefix(text, "${"); ok && strings.HasSuffix(name, "}") {
		name = strings.TrimSuffix(name, "}")
		if props := root.SelectElement("properties"); props != nil {
			if prop := props.SelectElement(name); prop != nil {
				return prop
			}
		}
	}
	return el
}

// versionProperty names the property that holds the version, or returns ""
// when <version> is written out directly.
func (p *POM) versionProperty() string {
	el := p.versionElement(false)
	if el == nil || el.Parent() == nil || el.Parent().Tag != "properties" {
		return ""
	}
	return el.Tag
}

// Save implements Project.
func (p *POM) Save() (bool, error) {
	data, err := p.doc.WriteToBytes()
	if err != nil {
		return false, fmt.Errorf("rendering %s: %w", p.location(), err)
	}
	if bytes.Equal(data, p.rendered) {
		return false, nil
	}
	if err := util.WriteFile(p.fs, DescriptorName, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", p.location(), err)
	}
	p.history = append(p.history, p.disk)
	p.disk = data
	p.rendered = data
	return true, nil
}

// Undo implements Project. Unsaved edits are discarded first; otherwise the
// most recent Save is reverted on disk.
func (p *POM) Undo() (bool, error) {
	current, err := p.doc.WriteToBytes()
	if err != nil {
		return false, fmt.Errorf("rendering %s: %w", p.location(), err)
	}
	if !bytes.Equal(current, p.rendered) {
		return true, p.reload(p.disk)
	}

	if len(p.history) == 0 {
		return false, nil
	}
	previous := p.history[len(p.history)-1]
	if err := util.WriteFile(p.fs, DescriptorName, previous, 0o644); err != nil {
		return false, fmt.Errorf("restoring %s: %w", p.location(), err)
	}
	p.history = p.history[:len(p.history)-1]
	p.disk = previous
	return true, p.reload(previous)
}

func (p *POM) reload(data []byte) error {
	doc, err := parseDescriptor(p.location(), data)
	if err != nil {
		return err
	}
	rendered, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", p.location(), err)
	}
	p.doc = doc
	p.rendered = rendered
	return nil
}

// BaseDir implements Project.
func (p *POM) BaseDir() string {
	return p.fs.Root()
}

// Filesystem implements Project.
func (p *POM) Filesystem() billy.Filesystem {
	return p.fs
}

// Scope implements Project.
func (p *POM) Scope() scope.Scope {
	return p.scope
}

func (p *POM) location() string {
	return p.fs.Join(p.fs.Root(), DescriptorName)
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
