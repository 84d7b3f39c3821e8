package domain

const (
	ProductA = "Product A"
	ProductB = "Product B"
)

// Comparison is the verdict produced for two enriched analyses
type Comparison struct {
	Winner     string    `json:"winner"`
	Insight    string    `json:"insight"`
	BestFor    BestFor   `json:"bestFor"`
	ScoreA     int       `json:"scoreA"`
	ScoreB     int       `json:"scoreB"`
	Complexity [2]string `json:"complexity"`
}

// BestFor lists the use cases the winning product suits
type BestFor struct {
	Winner string   `json:"winner"`
	Tags   []string `json:"tags"`
}

// CompareResult bundles both analyses with the comparison verdict
type CompareResult struct {
	ProductA   EnrichedAnalysis `json:"productA"`
	ProductB   EnrichedAnalysis `json:"productB"`
	Comparison Comparison       `json:"comparison"`
}

// CompareState is a state of the two-product comparison flow
type CompareState string

const (
	CompareIdle          CompareState = "idle"
	CompareAwaitingItem  CompareState = "awaiting-second-item"
	CompareComparing     CompareState = "comparing"
	CompareShowingResult CompareState = "showing-result"
)

// CompareSession is a server-side comparison flow for one client
type CompareSession struct {
	ID           string         `json:"id"`
	State        CompareState   `json:"state"`
	Context      UsageContext   `json:"context"`
	IngredientsA string         `json:"ingredientsA"`
	IngredientsB string         `json:"ingredientsB,omitempty"`
	Result       *CompareResult `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
}
