// The action-package defines the vocabulary the parser emits and the
// evaluator consumes: one Action per recognized command, with any
// payload (a register name, a raw input byte) carried alongside it.
//
// Numbers and strings are each split into a run of per-character
// actions followed by a "push" action, so that the parser never has to
// buffer a whole token - see the parser-package for why.
package action

// Kind identifies which command (or parser-internal event) an Action
// carries.
type Kind int

// The full command vocabulary. Ordered, where possible, like the GNU dc
// man page, matching the source this was ported from.
const (
	// NumberChar and StringChar feed one byte at a time into the
	// evaluator's in-flight number/string builder; PushNumber and
	// PushString commit the builder to the stack. A sequence of
	// NumberChar/StringChar actions is never interleaved with any
	// other action.
	NumberChar Kind = iota
	StringChar
	PushNumber
	PushString

	// Register carries a RegisterOp and the register name byte.
	Register

	Print             // 'p'
	PrintNoNewlinePop // 'n'
	PrintBytesPop     // 'P'
	PrintStack        // 'f'

	Add    // '+'
	Sub    // '-'
	Mul    // '*'
	Div    // '/'
	Rem    // '%'
	DivRem // '~'
	Exp    // '^'
	ModExp // '|'
	Sqrt   // 'v'

	ClearStack // 'c'
	Dup        // 'd'
	Swap       // 'r'

	SetInputRadix   // 'i'
	SetOutputRadix  // 'o'
	SetPrecision    // 'k'
	LoadInputRadix  // 'I'
	LoadOutputRadix // 'O'
	LoadPrecision   // 'K'

	Asciify      // 'a'
	ExecuteMacro // 'x'

	Input      // '?'
	Quit       // 'q'
	QuitLevels // 'Q'

	NumDigits    // 'Z'
	NumFrxDigits // 'X'
	StackDepth   // 'z'

	// ShellExec is never actually executed: shell command support is
	// deliberately unimplemented, and the rest of the line is simply
	// swallowed like a comment.
	ShellExec // '!'

	// Version is not part of historical dc; it pushes a build version
	// number and a short identifying string.
	Version // '@'

	// Eof marks the end of input was reached.
	Eof

	// Unimplemented carries an unrecognized or not-yet-supported
	// command byte.
	Unimplemented

	// InputError wraps an error encountered while reading the
	// underlying byte stream.
	InputError
)

// RegisterOp identifies which two-character register operation an
// Action with Kind == Register is carrying out.
type RegisterOp int

// The register operation vocabulary.
const (
	Store         RegisterOp = iota // 's'
	Load                            // 'l'
	PushRegStack                    // 'S'
	PopRegStack                     // 'L'
	Gt                              // '>'
	Le                              // '!>'
	Lt                              // '<'
	Ge                              // '!<'
	Eq                              // '='
	Ne                              // '!='
	StoreRegArray                   // ':'
	LoadRegArray                    // ';'
)

// Action is a single unit of work emitted by the parser and consumed by
// the evaluator.
type Action struct {
	Kind Kind

	// Byte carries the raw input byte for NumberChar, StringChar,
	// Unimplemented, and the register-name byte for Register.
	Byte byte

	// RegOp carries the register operation for Kind == Register.
	RegOp RegisterOp

	// Err carries the underlying I/O error for Kind == InputError.
	Err error
}
