package castkit

import (
	"strconv"
	"strings"
)

// pathSeg is a persistent JSON Pointer under construction. Segments are only
// joined into a string when an error is reported.
type pathSeg struct {
	parent *pathSeg
	token  string
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p *pathSeg) field(name string) *pathSeg {
	return &pathSeg{parent: p, token: pointerEscaper.Replace(name)}
}

func (p *pathSeg) index(i int) *pathSeg {
	return &pathSeg{parent: p, token: strconv.Itoa(i)}
}

// pointer renders the RFC 6901 pointer; the root is "/".
func (p *pathSeg) pointer() string {
	if p == nil {
		return "/"
	}
	var parts []string
	for s := p; s != nil; s = s.parent {
		parts = append(parts, s.token)
	}
	b := &strings.Builder{}
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}
