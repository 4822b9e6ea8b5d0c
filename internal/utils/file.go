package utils

import "os"

// Indicates if the given path exists or not (works for both files and directories)
func PathExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}

// Indicates if the given path exists and is a directory
func IsDirectory(filepath string) bool {
	info, err := os.Stat(filepath)
	return err == nil && info.IsDir()
}
