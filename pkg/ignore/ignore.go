package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName 是目录根下可选的忽略规则文件
const FileName = ".torrentignore"

// Matcher 封装了忽略逻辑
// 它负责判断目录中的一个文件是否应该被排除在种子之外
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 被制作成种子的目录 (用于查找 .torrentignore 文件)
// extra:    额外的 gitignore 风格规则，例如命令行的 --exclude
//
// 没有任何规则时返回的 Matcher 不忽略任何文件，目录中的所有文件都会进入种子。
func NewMatcher(rootPath string, extra ...string) (*Matcher, error) {
	ignoreFilePath := filepath.Join(rootPath, FileName)

	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		// 情况 A: 用户定义了 .torrentignore
		// 规则文件本身不应该被分发
		lines := append([]string{"/" + FileName}, extra...)
		ignorer, err := gitignore.CompileIgnoreFileAndLines(ignoreFilePath, lines...)
		if err != nil {
			return nil, err
		}
		return &Matcher{ignorer: ignorer}, nil
	}

	// 情况 B: 没有规则文件，只有额外规则
	if len(extra) == 0 {
		return &Matcher{}, nil
	}
	return &Matcher{ignorer: gitignore.CompileIgnoreLines(extra...)}, nil
}

// Matches 检查给定的路径是否匹配忽略规则
// path: 相对于种子根目录的路径 (例如 "data/model.bin")
// 返回: true 表示应该忽略 (Skip), false 表示应该保留 (Keep)
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(filepath.ToSlash(path))
}
