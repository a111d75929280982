package intake

// missingFields reports which required content fields are absent.
func (r ContentRecord) missingFields() []string {
	var missing []string
	if r.Title == "" {
		missing = append(missing, "title")
	}
	if r.Author == "" {
		missing = append(missing, "author")
	}
	if r.SourceURL == "" {
		missing = append(missing, "source_url")
	}
	return missing
}

// missingFields reports which required chapter fields are absent.
// Pages may be empty but must be present; chapter 0 counts as present.
func (r ChapterRecord) missingFields() []string {
	var missing []string
	if r.ContentSourceURL == "" {
		missing = append(missing, "content_source_url")
	}
	if r.Number == nil {
		missing = append(missing, "chapter_number")
	}
	if r.Pages == nil {
		missing = append(missing, "pages")
	}
	return missing
}

func (r ContentRecord) validate() error {
	if missing := r.missingFields(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (r ChapterRecord) validate() error {
	if missing := r.missingFields(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
