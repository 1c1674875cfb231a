// Package idgen 生成随机定长数字 ID
//
// 不做唯一性预检查，冲突由数据库主键约束在写入时报出，调用方不重试。
package idgen

import (
	"math/rand/v2"
)

const (
	// DefaultDigits 默认 ID 位数
	DefaultDigits = 10
	// MaxDigits int64 可容纳的最大位数
	MaxDigits = 18
)

// RandomWithN 返回 [10^(n-1), 10^n-1] 区间内的随机整数
// n 超出 [1, MaxDigits] 时取边界值
func RandomWithN(n int) int64 {
	if n < 1 {
		n = 1
	}
	if n > MaxDigits {
		n = MaxDigits
	}
	start := pow10(n - 1)
	end := pow10(n) - 1
	return start + rand.Int64N(end-start+1)
}

// New 默认位数的随机 ID
func New() int64 {
	return RandomWithN(DefaultDigits)
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
