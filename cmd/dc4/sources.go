package main

// source is one input fragment the CLI will feed to the runtime: either
// a literal expression from -e or a file path from -f. sourceList keeps
// both flags appending into the same ordered slice, since dc's -e/-f
// precedence is "process them in the order given on the command line",
// not "all -e, then all -f".
type source struct {
	isFile bool
	value  string
}

// sourceList is a pflag.Value; two instances (one for -e, one for -f)
// share the same backing slice via target, so appends from either flag
// land in the exact order they appeared on the command line.
type sourceList struct {
	target *[]source
	isFile bool
}

// String satisfies pflag.Value; the flag is write-only from the CLI's
// point of view so there is nothing meaningful to render back.
func (s *sourceList) String() string {
	return ""
}

func (s *sourceList) Set(v string) error {
	*s.target = append(*s.target, source{isFile: s.isFile, value: v})
	return nil
}

func (s *sourceList) Type() string {
	if s.isFile {
		return "file"
	}
	return "expression"
}
