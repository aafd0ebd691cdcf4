package cmd

import "os"

// workingDir returns the current working directory, used as the starting
// point for .filex repository discovery in commands that operate on the
// repository containing the current directory rather than an explicit path.
func workingDir() (string, error) {
	return os.Getwd()
}
