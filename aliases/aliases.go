package aliases

import "strings"

// entry associates a canonical identifier with its known surface forms.
// Tables are ordered slices rather than maps so PromptContext output is
// deterministic.
type entry struct {
	canonical  string
	variations []string
}

var schoolTable = []entry{
	{"iit_bombay", []string{"IIT Bombay", "Indian Institute of Technology Bombay", "IITB", "IIT-Bombay"}},
	{"iit_delhi", []string{"IIT Delhi", "Indian Institute of Technology Delhi", "IITD", "IIT-Delhi"}},
	{"iit_madras", []string{"IIT Madras", "Indian Institute of Technology Madras", "IITM", "IIT-Madras"}},
	{"iit_kanpur", []string{"IIT Kanpur", "Indian Institute of Technology Kanpur", "IITK", "IIT-Kanpur"}},
	{"iit_kharagpur", []string{"IIT Kharagpur", "Indian Institute of Technology Kharagpur", "IIT-KGP", "IITKGP"}},
	{"iisc", []string{"IISc", "Indian Institute of Science", "IISc Bangalore", "IISc Bengaluru"}},
	{"bits_pilani", []string{"BITS Pilani", "Birla Institute of Technology and Science", "BITS"}},
	{"stanford", []string{"Stanford", "Stanford University", "Stanford GSB", "Stanford Graduate School of Business"}},
	{"mit", []string{"MIT", "Massachusetts Institute of Technology", "MIT Sloan"}},
	{"harvard", []string{"Harvard", "Harvard University", "Harvard Business School", "HBS"}},
	{"berkeley", []string{"UC Berkeley", "Berkeley", "University of California, Berkeley", "UCB", "Cal"}},
	{"cmu", []string{"CMU", "Carnegie Mellon", "Carnegie Mellon University"}},
	{"caltech", []string{"Caltech", "California Institute of Technology"}},
	{"princeton", []string{"Princeton", "Princeton University"}},
	{"yale", []string{"Yale", "Yale University"}},
	{"columbia", []string{"Columbia", "Columbia University"}},
	{"nyu", []string{"NYU", "New York University"}},
	{"upenn", []string{"UPenn", "Penn", "University of Pennsylvania", "Wharton"}},
	{"oxford", []string{"Oxford", "University of Oxford", "Oxford University"}},
	{"cambridge", []string{"Cambridge", "University of Cambridge", "Cambridge University"}},
	{"du", []string{"Delhi University", "DU", "University of Delhi"}},
	{"iim_ahmedabad", []string{"IIM Ahmedabad", "IIM-A", "IIMA", "Indian Institute of Management Ahmedabad"}},
	{"iim_bangalore", []string{"IIM Bangalore", "IIM-B", "IIMB", "Indian Institute of Management Bangalore"}},
	{"nit", []string{"NIT", "National Institute of Technology"}},
	{"vit", []string{"VIT", "Vellore Institute of Technology"}},
	{"srm", []string{"SRM", "SRM University", "SRM Institute of Science and Technology"}},
}

var locationTable = []entry{
	{"bangalore", []string{"Bangalore", "Bengaluru", "Karnataka", "Blr", "BLR"}},
	{"mumbai", []string{"Mumbai", "Bombay", "Maharashtra"}},
	{"delhi", []string{"Delhi", "New Delhi", "NCR", "Gurgaon", "Gurugram", "Noida"}},
	{"hyderabad", []string{"Hyderabad", "Hyd", "Telangana", "Secunderabad"}},
	{"chennai", []string{"Chennai", "Madras", "Tamil Nadu"}},
	{"pune", []string{"Pune", "Poona", "Maharashtra"}},
	{"kolkata", []string{"Kolkata", "Calcutta", "West Bengal"}},
	{"san_francisco", []string{"San Francisco", "SF", "Bay Area", "Silicon Valley"}},
	{"new_york", []string{"New York", "NYC", "New York City", "Manhattan", "Brooklyn"}},
	{"seattle", []string{"Seattle", "Washington", "WA"}},
	{"austin", []string{"Austin", "Texas", "TX"}},
	{"boston", []string{"Boston", "Massachusetts", "MA"}},
	{"london", []string{"London", "UK", "United Kingdom"}},
	{"singapore", []string{"Singapore", "SG"}},
	{"dubai", []string{"Dubai", "UAE", "United Arab Emirates"}},
}

var skillTable = []entry{
	{"frontend", []string{"frontend", "front-end", "react", "reactjs", "vue", "vuejs", "angular",
		"javascript", "typescript", "ui engineer", "ui developer", "web developer",
		"nextjs", "html", "css", "tailwind"}},
	{"backend", []string{"backend", "back-end", "node", "nodejs", "django", "flask", "fastapi",
		"spring boot", "java", "python", "golang", "api development", "server-side"}},
	{"fullstack", []string{"fullstack", "full stack", "full-stack", "mern", "mean"}},
	{"machine_learning", []string{"machine learning", "ml", "deep learning", "neural networks",
		"tensorflow", "pytorch", "nlp", "natural language processing",
		"computer vision", "ai", "artificial intelligence", "data science"}},
	{"data_science", []string{"data science", "data scientist", "analytics", "pandas", "numpy",
		"statistics", "data analysis", "data analyst"}},
	{"devops", []string{"devops", "docker", "kubernetes", "k8s", "ci/cd", "aws", "cloud",
		"infrastructure", "sre", "site reliability"}},
	{"product", []string{"product manager", "product management", "pm", "product owner", "product lead"}},
	{"design", []string{"designer", "ui/ux", "ux designer", "ui designer", "product designer", "figma"}},
	{"mobile", []string{"mobile", "ios", "android", "react native", "flutter", "swift", "kotlin"}},
	{"security", []string{"security", "cybersecurity", "infosec", "penetration testing", "security engineer"}},
}

var companyTable = []entry{
	{"google", []string{"Google", "Alphabet", "Google Cloud", "GCP", "YouTube", "DeepMind"}},
	{"meta", []string{"Meta", "Facebook", "Instagram", "WhatsApp", "Oculus"}},
	{"amazon", []string{"Amazon", "AWS", "Amazon Web Services", "Twitch", "Whole Foods"}},
	{"microsoft", []string{"Microsoft", "Azure", "LinkedIn", "GitHub", "Xbox"}},
	{"apple", []string{"Apple", "Apple Inc"}},
	{"netflix", []string{"Netflix"}},
	{"faang", []string{"Google", "Meta", "Facebook", "Amazon", "Apple", "Netflix", "Microsoft"}},
	{"startup", []string{"startup", "founder", "co-founder", "cofounder", "entrepreneur", "ceo"}},
}

// CanonicalSchool maps a school name to its canonical identifier.
// Unknown schools fall back to a slug derived from the name itself, so
// distinct unknown schools still form distinct conjunction groups.
func CanonicalSchool(name string) string {
	lower := strings.ToLower(name)
	for _, e := range schoolTable {
		for _, v := range e.variations {
			if containsEither(lower, strings.ToLower(v)) {
				return e.canonical
			}
		}
	}
	slug := strings.ReplaceAll(lower, " ", "_")
	runes := []rune(slug)
	if len(runes) > 20 {
		slug = string(runes[:20])
	}
	return slug
}

// SchoolVariations returns all known surface forms of a school.
// Unknown schools return themselves as the sole variation.
func SchoolVariations(name string) []string {
	lower := strings.ToLower(name)
	for _, e := range schoolTable {
		for _, v := range e.variations {
			if containsEither(lower, strings.ToLower(v)) {
				return e.variations
			}
		}
	}
	return []string{name}
}

// ExpandLocation returns all known variations of a location, including
// region and nickname forms. Unknown locations return themselves.
func ExpandLocation(location string) []string {
	lower := strings.ToLower(location)
	for _, e := range locationTable {
		for _, v := range e.variations {
			vl := strings.ToLower(v)
			if vl == lower || strings.Contains(vl, lower) {
				return e.variations
			}
		}
	}
	return []string{location}
}

// ExpandSkill returns the full semantic cluster a skill belongs to.
// Unknown skills return themselves.
func ExpandSkill(skill string) []string {
	lower := strings.ToLower(skill)
	for _, e := range skillTable {
		for _, v := range e.variations {
			if strings.ToLower(v) == lower {
				return e.variations
			}
		}
	}
	return []string{skill}
}

// ExpandCompany returns known variations of a company, including
// subsidiaries. Unknown companies return themselves.
func ExpandCompany(company string) []string {
	lower := strings.ToLower(company)
	for _, e := range companyTable {
		for _, v := range e.variations {
			if strings.ToLower(v) == lower {
				return e.variations
			}
		}
	}
	return []string{company}
}

// PromptContext renders a compact alias reference for inclusion in the
// query normalizer's system prompt. The model uses it as a seed list and
// is instructed to expand further on its own.
func PromptContext() string {
	var b strings.Builder
	b.WriteString("## Quick Reference (use these, expand further as needed):")

	b.WriteString("\n\nSCHOOLS:")
	for _, e := range schoolTable[:10] {
		writeRef(&b, e.variations[0], e.variations[1:3])
	}

	b.WriteString("\n\nLOCATIONS:")
	for _, e := range locationTable[:8] {
		writeRef(&b, e.variations[0], e.variations[1:3])
	}

	b.WriteString("\n\nSKILLS:")
	for _, e := range skillTable[:5] {
		writeRef(&b, e.canonical, e.variations[:5])
	}

	return b.String()
}

func writeRef(b *strings.Builder, head string, rest []string) {
	b.WriteString("\n  ")
	b.WriteString(head)
	b.WriteString(" = ")
	b.WriteString(strings.Join(rest, ", "))
}

// containsEither reports whether either lowercase string contains the other.
// Alias matching is deliberately loose: "Stanford GSB" should hit the
// "stanford" group whether the query carries the long or the short form.
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
