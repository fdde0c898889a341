package common

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func node() *snowflake.Node {
	snowflakeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(1)
		if err != nil {
			zap.S().Panicf("snowflake node init error %s", err.Error())
		}
	})
	return snowflakeNode
}

// UUIDint64 returns a time ordered unique id
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUIDString returns UUIDint64 in decimal form
func UUIDString() string {
	return strconv.FormatInt(UUIDint64(), 10)
}

func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}

// Slugify lowercases and joins words with dashes, used for category hrefs
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
