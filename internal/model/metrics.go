package model

// FunctionDef describes one function or method definition in a snippet.
type FunctionDef struct {
	Name         string `json:"name" bson:"name"`
	Line         int    `json:"lineno" bson:"lineno"`
	EndLine      int    `json:"end_lineno" bson:"end_lineno"`
	HasDocstring bool   `json:"has_docstring" bson:"has_docstring"`
}

// ClassDef describes one class definition in a snippet.
type ClassDef struct {
	Name         string   `json:"name" bson:"name"`
	Line         int      `json:"lineno" bson:"lineno"`
	EndLine      int      `json:"end_lineno" bson:"end_lineno"`
	Bases        []string `json:"bases" bson:"bases"`
	HasDocstring bool     `json:"has_docstring" bson:"has_docstring"`
}

// Metrics is the derived, immutable-once-computed metric set of one snippet.
type Metrics struct {
	CleanContent         string
	ContentLength        int     // runes of CleanContent, never of the raw content
	SpecialRatio         float64 // [0,1]
	IsSyntaxError        bool
	MaintainabilityIndex float64 // [0,100], 0 on parse failure
	CyclomaticComplexity float64 // sum over functions, 0 on parse failure
	CommentRatio         float64 // [0,1]
	NumberOfLines        int
	HasModuleDocstring   bool
	FunctionDefinitions  []FunctionDef
	ClassDefinitions     []ClassDef
	Imports              []string
}
