package search

// Locator holds everything tied to the provider's current markup. Swapping
// it is the only change needed when the page layout moves.
type Locator struct {
	LandingURL    string `yaml:"landing_url"`
	SearchByImage string `yaml:"search_by_image"`
	SearchInput   string `yaml:"search_input"`
	SimilarImages string `yaml:"similar_images"`
	Thumbnail     string `yaml:"thumbnail"`
	Preview       string `yaml:"preview"`
	LoadMore      string `yaml:"load_more"`
}

func GoogleLocator() Locator {
	return Locator{
		LandingURL:    "https://www.google.com/imghp?hl=en",
		SearchByImage: "div.ZaFQO",
		SearchInput:   "input#Ycyxxc",
		SimilarImages: "h3.GmE3X",
		Thumbnail:     "img.Q4LuWd",
		Preview:       "img.n3VNCb",
		LoadMore:      ".mye4qd",
	}
}

// Merge fills empty fields of l from def.
func (l Locator) Merge(def Locator) Locator {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	fill(&l.LandingURL, def.LandingURL)
	fill(&l.SearchByImage, def.SearchByImage)
	fill(&l.SearchInput, def.SearchInput)
	fill(&l.SimilarImages, def.SimilarImages)
	fill(&l.Thumbnail, def.Thumbnail)
	fill(&l.Preview, def.Preview)
	fill(&l.LoadMore, def.LoadMore)

	return l
}
