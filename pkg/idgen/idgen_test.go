package idgen

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomWithN(t *testing.T) {
	tests := []struct {
		name   string
		digits int
		want   int
	}{
		{"默认10位", DefaultDigits, 10},
		{"合集9位", 9, 9},
		{"1位", 1, 1},
		{"小于1按1位", 0, 1},
		{"超出上限按18位", 30, MaxDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				id := RandomWithN(tt.digits)
				assert.Len(t, strconv.FormatInt(id, 10), tt.want)
			}
		})
	}
}

func TestNew_NotSequential(t *testing.T) {
	seen := make(map[int64]struct{})
	for i := 0; i < 1000; i++ {
		seen[New()] = struct{}{}
	}
	// 10 位随机空间内 1000 次抽样几乎不可能大量重复
	assert.Greater(t, len(seen), 990)
}
