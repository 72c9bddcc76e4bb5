package metainfo

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// Node 是一个 DHT 引导节点
type Node struct {
	Host string
	Port int
}

func (n Node) String() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

var (
	address6    = regexp.MustCompile(`^\[([\da-fA-F:]+)\]:(\d+)$`)
	address4    = regexp.MustCompile(`^([\d.]+):(\d+)$`)
	addressName = regexp.MustCompile(`^(.+):(\d+)$`)
)

// ParseNode 解析 "[v6]:port"、"v4:port" 或 "name:port" 形式的节点地址
func ParseNode(s string) (Node, error) {
	s = strings.TrimSpace(s)
	for _, re := range []*regexp.Regexp{address6, address4, addressName} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		port, err := strconv.Atoi(m[2])
		if err != nil || port < 1 || port > 65535 {
			return Node{}, invalid("nodes", "port out of range in %q", s)
		}
		return Node{Host: m[1], Port: port}, nil
	}
	return Node{}, invalid("nodes", "invalid node address specification %q", s)
}

// ParseNodes 依次解析多个节点地址，遇到第一个错误即返回
func ParseNodes(specs []string) ([]Node, error) {
	nodes := make([]Node, 0, len(specs))
	for _, s := range specs {
		n, err := ParseNode(s)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ParseTiers 将命令行的 announce 参数转换为 tier 列表
// 每个参数是一个 tier，tier 内的 URL 以逗号分隔；空 URL 和空 tier 被丢弃。
func ParseTiers(values []string) [][]string {
	var tiers [][]string
	for _, v := range values {
		var tier []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				tier = append(tier, u)
			}
		}
		if len(tier) > 0 {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}
