// Package magnet 生成和解析 BitTorrent magnet 链接
package magnet

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"
)

const (
	scheme = "magnet:?"
	btih   = "urn:btih:"
)

// Link 是一个 magnet 链接
type Link struct {
	DisplayName       string
	ExactLength       int64 // 仅单文件种子，0 表示省略
	InfoHash          types.InfoHash
	Trackers          []string
	AcceptableSources []string
}

// String 按固定顺序输出：dn, xl, xt, tr..., as...
// 所有值都经过百分号编码 (包括 xt 中的冒号)；重复参数每个值单独出现，不做逗号拼接。
func (l Link) String() string {
	var sb strings.Builder
	sb.WriteString(scheme)

	add := func(key, value string) {
		if sb.Len() > len(scheme) {
			sb.WriteByte('&')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(value)
	}

	add("dn", url.QueryEscape(l.DisplayName))
	if l.ExactLength > 0 {
		add("xl", strconv.FormatInt(l.ExactLength, 10))
	}
	add("xt", url.QueryEscape(btih+string(l.InfoHash)))
	for _, tr := range l.Trackers {
		add("tr", url.QueryEscape(tr))
	}
	for _, as := range l.AcceptableSources {
		add("as", url.QueryEscape(as))
	}
	return sb.String()
}

// FromBundle 从 Bundle 构造 magnet 链接
func FromBundle(b *metainfo.Bundle) (Link, error) {
	hash, err := b.InfoHash()
	if err != nil {
		return Link{}, err
	}

	l := Link{
		DisplayName:       b.Info.Name,
		InfoHash:          hash,
		Trackers:          b.Trackers(),
		AcceptableSources: b.URLList,
	}
	if b.Info.IsSingle() {
		l.ExactLength = b.Info.Length
	}
	return l, nil
}

// Parse 解析 magnet 链接，只识别 dn, xl, xt (btih), tr, as
func Parse(s string) (Link, error) {
	if !strings.HasPrefix(s, scheme) {
		return Link{}, fmt.Errorf("not a magnet link: %q", s)
	}
	q, err := url.ParseQuery(s[len(scheme):])
	if err != nil {
		return Link{}, fmt.Errorf("invalid magnet query: %w", err)
	}

	var l Link
	for _, xt := range q["xt"] {
		if rest, ok := strings.CutPrefix(xt, btih); ok {
			l.InfoHash = types.InfoHash(strings.ToLower(rest))
		}
	}
	if !l.InfoHash.IsValid() {
		return Link{}, fmt.Errorf("magnet link has no valid btih exact topic")
	}

	l.DisplayName = q.Get("dn")
	if xl := q.Get("xl"); xl != "" {
		if l.ExactLength, err = strconv.ParseInt(xl, 10, 64); err != nil {
			return Link{}, fmt.Errorf("invalid exact length %q: %w", xl, err)
		}
	}
	l.Trackers = q["tr"]
	l.AcceptableSources = q["as"]
	return l, nil
}
