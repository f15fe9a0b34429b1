package lzmapack

import (
	"fmt"

	"github.com/ulikunitz/xz/lzma"
)

const (
	DefaultLevel   = 6
	DefaultDictCap = 32 << 20 // 33554432
	MinLevel       = 0
	MaxLevel       = 9
)

// Options controls the encoder. A zero DictCap selects the dictionary size
// of the level.
type Options struct {
	Level   int
	DictCap int
}

// DefaultOptions returns level 6 with an explicit 32 MiB dictionary.
func DefaultOptions() Options {
	return Options{Level: DefaultLevel, DictCap: DefaultDictCap}
}

// LevelDictCap returns the dictionary size used by level when no explicit
// size is given. It doubles per level, level 6 gets DefaultDictCap.
func LevelDictCap(level int) int {
	if level >= DefaultLevel {
		return DefaultDictCap << uint(level-DefaultLevel)
	}
	return DefaultDictCap >> uint(DefaultLevel-level)
}

// EffectiveDictCap is the dictionary size the encoder will use.
func (o Options) EffectiveDictCap() int {
	if o.DictCap == 0 {
		return LevelDictCap(o.Level)
	}
	return o.DictCap
}

func (o Options) Verify() error {
	if o.Level < MinLevel || o.Level > MaxLevel {
		return fmt.Errorf("level %d out of range [%d, %d]", o.Level, MinLevel, MaxLevel)
	}
	dictCap := int64(o.EffectiveDictCap())
	if dictCap < lzma.MinDictCap || dictCap > lzma.MaxDictCap {
		return fmt.Errorf("dictionary size %d out of range [%d, %d]",
			dictCap, lzma.MinDictCap, int64(lzma.MaxDictCap))
	}
	return nil
}

// writerConfig builds an encoder configuration that leaves the size out of
// the header and terminates the stream with an end marker. The size field
// is patched afterwards.
func (o Options) writerConfig() (*lzma.WriterConfig, error) {
	if err := o.Verify(); err != nil {
		return nil, newError(ErrCodecInit, "options", err)
	}
	cfg := &lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: 3, LP: 0, PB: 2},
		DictCap:      o.EffectiveDictCap(),
		Matcher:      lzma.HashTable4,
		SizeInHeader: false,
		EOSMarker:    true,
	}
	if err := cfg.Verify(); err != nil {
		return nil, newError(ErrCodecInit, "writer config", err)
	}
	return cfg, nil
}
