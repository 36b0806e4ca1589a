package rubybe

import "github.com/y8/canopy/internal/backend"

// Failure clears address and records expected at the current offset. A
// farther offset replaces what was expected before; the same offset adds
// to it.
func (b *Builder) Failure(address, expected string) {
	b.Assign(address, b.Null())
	desc := quote(expected)
	b.Unless("@error and @error.offset > @offset", func(backend.Builder) {
		b.If("@error and @error.offset == @offset", func(backend.Builder) {
			b.line("@error.expected << " + desc + " unless @error.expected.include?(" + desc + ")")
		}, func(backend.Builder) {
			b.Assign("@error", "ParseError.new(@input, @offset, ["+desc+"])")
		})
	}, nil)
}

func (b *Builder) formatError() {
	b.method("self.format_error", []string{"error"}, func(m *Builder) {
		m.line(`lines, line_no, offset = error.input.split(/\n/, -1), 0, 0`)
		m.line(`lines = [""] if lines.empty?`)
		m.line(`while offset <= error.offset and line_no < lines.size`)
		m.indent(func(m *Builder) {
			m.line(`offset += lines[line_no].size + 1`)
			m.line(`line_no += 1`)
		})
		m.line(`end`)
		m.line(`line = lines[line_no - 1]`)
		m.line(`offset -= line.size + 1`)
		m.line(`message = "Line #{line_no}: expected #{error.expected.join(" or ")}\n"`)
		m.line(`message += "#{line}\n"`)
		m.line(`message += " " * (error.offset - offset)`)
		m.Return(`message + "^"`)
	})
}
