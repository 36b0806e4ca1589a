package rubybe

import (
	"strings"

	"github.com/y8/canopy/internal/backend"
)

// separate puts a blank line between sibling definitions in one scope.
func (b *Builder) separate() {
	if b.methodSeparator != "" {
		b.newline()
	}
	b.methodSeparator = "\n"
}

// Package wraps body in one module per dotted segment of name, so no
// enclosing module has to exist beforehand.
func (b *Builder) Package(name string, body backend.Block) {
	if name == "" {
		panic("rubybe: empty package name")
	}
	b.openModules(strings.Split(name, "."), body)
}

func (b *Builder) openModules(parts []string, body backend.Block) {
	b.line("module " + parts[0])
	b.methodSeparator = ""
	b.indent(func(b *Builder) {
		if len(parts) > 1 {
			b.openModules(parts[1:], body)
			return
		}
		body(b)
	})
	b.line("end")
	b.methodSeparator = "\n"
}

// SyntaxNodeClass emits the base node type and returns its name.
func (b *Builder) SyntaxNodeClass() string {
	const name = "SyntaxNode"
	b.class(name, "", func(c *Builder) {
		c.line("include Enumerable")
		c.Attributes([]string{"text", "offset", "elements"})
		c.method("initialize", []string{"text", "offset", "elements"}, func(m *Builder) {
			m.Attribute("text", "text")
			m.Attribute("offset", "offset")
			m.Attribute("elements", "elements")
		})
		c.method("each", []string{"&block"}, func(m *Builder) {
			m.line("@elements.each(&block)")
		})
	})
	return name
}

// GrammarModule emits the error types and then the module that holds one
// reader method per rule.
func (b *Builder) GrammarModule(body backend.Block) {
	b.separate()
	b.line("ParseError = Struct.new(:input, :offset, :expected)")

	b.class("ParseFailure", "StandardError", func(c *Builder) {
		c.Attributes([]string{"error"})
		c.method("initialize", []string{"error"}, func(m *Builder) {
			m.line("super(Parser.format_error(error))")
			m.Attribute("error", "error")
		})
	})

	b.separate()
	b.line("module Grammar")
	c := b.child()
	c.indent(func(c *Builder) {
		c.Assign("FAILURE", "Object.new")
		c.methodSeparator = "\n"
		body(c)
	})
	b.line("end")
}

// ParserClass emits the parser entry point, reading from the root rule.
func (b *Builder) ParserClass(root string) {
	b.class("Parser", "", func(c *Builder) {
		c.line("include Grammar")
		c.methodSeparator = "\n"
		c.method("initialize", []string{"input"}, func(m *Builder) {
			m.Attribute("input", "input")
			m.Attribute("offset", "0")
			m.Attribute("cache", "Hash.new { |h, k| h[k] = {} }")
			m.Attribute("error", m.Null())
		})
		c.method("parse", nil, func(m *Builder) {
			tree := m.LocalVar("tree", "_read_"+root)
			m.If(m.And(tree, m.Offset()+" == "+m.StringLength("@input")), func(backend.Builder) {
				m.Return(tree)
			}, nil)
			m.If(tree, func(backend.Builder) {
				m.Failure(tree, "<EOF>")
			}, nil)
			m.line("@error ||= ParseError.new(@input, @offset, [" + quote("<EOF>") + "])")
			m.line("raise ParseFailure.new(@error)")
		})
		c.formatError()
	})
}

// Exports emits the module-level parse function.
func (b *Builder) Exports() {
	b.method("self.parse", []string{"input"}, func(m *Builder) {
		parser := m.LocalVar("parser", "Parser.new(input)")
		m.Return(parser + ".parse")
	})
}

func (b *Builder) Class(name, parent string, body backend.Block) {
	b.class(name, parent, func(c *Builder) { body(c) })
}

func (b *Builder) class(name, parent string, body func(*Builder)) {
	b.separate()
	if parent != "" {
		b.line("class " + name + " < " + parent)
	} else {
		b.line("class " + name)
	}
	b.child().indent(body)
	b.line("end")
}

// Constructor emits initialize, handing every argument to the superclass
// before body runs.
func (b *Builder) Constructor(args []string, body backend.Block) {
	b.method("initialize", args, func(m *Builder) {
		m.line("super")
		body(m)
	})
}

func (b *Builder) Method(name string, args []string, body backend.Block) {
	b.method(name, args, func(m *Builder) { body(m) })
}

func (b *Builder) method(name string, args []string, body func(*Builder)) {
	b.separate()
	if len(args) > 0 {
		b.line("def " + name + "(" + strings.Join(args, ", ") + ")")
	} else {
		b.line("def " + name)
	}
	b.child().indent(body)
	b.line("end")
}

// Attributes declares read-only accessors.
func (b *Builder) Attributes(names []string) {
	if len(names) == 0 {
		return
	}
	syms := make([]string, len(names))
	for i, n := range names {
		syms[i] = ":" + n
	}
	b.line("attr_reader " + strings.Join(syms, ", "))
	b.methodSeparator = "\n"
}

func (b *Builder) Attribute(name, value string) {
	b.Assign("@"+name, value)
}
