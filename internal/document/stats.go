package document

// summary counts for a document
type Stats struct {
	Paragraphs int
	Words      int
	TimedWords int
	Speakers   int
	// bounds of timed content, valid only when TimedWords > 0
	Start float64
	End   float64
}

func (d *Document) Stats() Stats {
	var s Stats
	speakers := make(map[string]struct{})
	first := true

	for _, p := range d.Children {
		s.Paragraphs++
		speakers[p.Speaker] = struct{}{}
		for _, w := range p.Children {
			s.Words++
			if !w.Timed() {
				continue
			}
			s.TimedWords++
			if first || *w.Start < s.Start {
				s.Start = *w.Start
			}
			if first || *w.End > s.End {
				s.End = *w.End
			}
			first = false
		}
	}

	s.Speakers = len(speakers)
	return s
}
