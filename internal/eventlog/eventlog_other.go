//go:build plan9

package eventlog

func open(string) (writer, error) {
	return nil, ErrUnavailable
}
