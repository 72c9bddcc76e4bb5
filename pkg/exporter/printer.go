package exporter

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"gentorrent/pkg/meta"
	"gentorrent/pkg/metainfo"
	"gentorrent/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// IsTerminal 报告 w 是否是终端，用于选择表格样式
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	if IsTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
	}
	return tw
}

// PrintBundle 打印种子摘要和文件列表
func PrintBundle(w io.Writer, b *metainfo.Bundle) error {
	hash, err := b.InfoHash()
	if err != nil {
		return err
	}
	info := &b.Info

	fmt.Fprintf(w, "Name:        %s\n", info.Name)
	fmt.Fprintf(w, "InfoHash:    %s\n", hash)
	fmt.Fprintf(w, "Size:        %s (%d bytes)\n", humanize.IBytes(uint64(info.TotalLength())), info.TotalLength())
	fmt.Fprintf(w, "Pieces:      %d x %s\n", info.NumPieces(), humanize.IBytes(uint64(info.PieceLength)))
	if info.RootHash != nil {
		fmt.Fprintf(w, "Root hash:   %x\n", info.RootHash)
	}
	if info.Private {
		fmt.Fprintf(w, "Private:     yes\n")
	}
	if !b.CreationDate.IsZero() {
		fmt.Fprintf(w, "Created:     %s (%s)\n", b.CreationDate.Format(time.RFC3339), humanize.Time(b.CreationDate))
	}
	if b.CreatedBy != "" {
		fmt.Fprintf(w, "Created by:  %s\n", b.CreatedBy)
	}
	if b.Comment != "" {
		fmt.Fprintf(w, "Comment:     %s\n", b.Comment)
	}
	for i, tier := range b.Announce {
		fmt.Fprintf(w, "Tier %d:      %s\n", i+1, strings.Join(tier, ", "))
	}
	for _, n := range b.Nodes {
		fmt.Fprintf(w, "Node:        %s\n", n)
	}
	for _, s := range b.HTTPSeeds {
		fmt.Fprintf(w, "HTTP seed:   %s\n", s)
	}
	for _, u := range b.URLList {
		fmt.Fprintf(w, "Mirror:      %s\n", u)
	}

	if info.IsSingle() {
		if info.Checksum != "" {
			fmt.Fprintf(w, "%-13s%s\n", info.Algorithm.Key()+":", info.Checksum)
		}
		return nil
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	header := table.Row{"#", "PATH", "SIZE"}
	if info.Algorithm.Enabled() {
		header = append(header, strings.ToUpper(info.Algorithm.Key()))
	}
	tw.AppendHeader(header)
	for i, f := range info.Files {
		row := table.Row{i + 1, path.Join(f.Path...), humanize.IBytes(uint64(f.Length))}
		if info.Algorithm.Enabled() {
			row = append(row, f.Checksum)
		}
		tw.AppendRow(row)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(w, tw.Render())
	return nil
}

// PrintCatalog 打印目录中的种子列表
func PrintCatalog(w io.Writer, torrents []meta.TorrentModel) {
	if len(torrents) == 0 {
		fmt.Fprintln(w, "(no torrents recorded)")
		return
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"INFOHASH", "NAME", "SIZE", "FILES", "CREATED", "FLAGS"})
	for _, t := range torrents {
		var flags []string
		if t.Private {
			flags = append(flags, "private")
		}
		if t.Merkle {
			flags = append(flags, "merkle")
		}
		if t.Published {
			flags = append(flags, "published")
		}
		tw.AppendRow(table.Row{
			types.InfoHash(t.InfoHash).Short(),
			t.Name,
			humanize.IBytes(uint64(t.TotalSize)),
			t.NumFiles,
			humanize.Time(time.Unix(t.CreationDate, 0)),
			strings.Join(flags, ","),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(w, tw.Render())
}
