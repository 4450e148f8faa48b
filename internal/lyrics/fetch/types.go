package fetch

// Config tells the extractor where lyrics live on a page.
type Config struct {
	// Selectors are tried in order; the first matching element wins.
	Selectors []string
	// MaxBlankLines caps consecutive empty lines kept in the output.
	MaxBlankLines int
}

// DefaultConfig covers chord sites that keep lyrics in a <pre> block and
// pages that publish raw LRC text inside <pre> or <textarea>.
func DefaultConfig() Config {
	return Config{
		Selectors: []string{
			`pre[itemprop="chordsBlock"]`,
			`pre.lyrics`,
			`div.lyrics`,
			`textarea.lrc`,
			`pre`,
		},
		MaxBlankLines: 1,
	}
}
