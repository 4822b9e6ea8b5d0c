package utils

import (
	"io"
	"strings"

	"github.com/0xRadioAc7iv/go-kvs/kvs"
	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultDirectoryPath = "."

// StoreFlags holds the command line flags shared by every command that opens
// a store.
type StoreFlags struct {
	Dir         string
	LogFileName string
	Verbose     bool
}

func (f *StoreFlags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Dir, "dir", "d", DefaultDirectoryPath, "Directory holding the store's log file")
	fs.StringVar(&f.LogFileName, "log-file", kvs.DefaultLogFileName, "Name of the log file inside --dir")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Log store activity to stderr")
}

// Logger returns a development logger writing to w when --verbose is set
// and a no-op logger otherwise.
func (f *StoreFlags) Logger(w io.Writer) *zap.Logger {
	if !f.Verbose {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(w),
		cfg.Level,
	)
	return zap.New(core, zap.Development(), zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(w)))
}

// Validate checks that --dir names an existing directory. Creating it is
// left to the caller.
func (f *StoreFlags) Validate() error {
	if !PathExists(f.Dir) {
		return errors.Newf("directory %q does not exist", f.Dir)
	}
	if !IsDirectory(f.Dir) {
		return errors.Newf("%q is not a directory", f.Dir)
	}
	return nil
}

// SplitStringIntoCommandAndArguments splits a line typed into the shell
// using shell quoting rules, so values may contain spaces when quoted:
//
//	set city "new york"  =>  "set", ["city", "new york"]
//
// The command name is lower-cased.
func SplitStringIntoCommandAndArguments(line string) (string, []string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", nil, err
	}
	if len(words) == 0 {
		return "", nil, errors.New("empty command")
	}

	return strings.ToLower(words[0]), words[1:], nil
}
