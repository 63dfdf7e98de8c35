package composite

// Reducer identifies how the service collapses a stack of scenes into one
// composite image.
type Reducer string

const (
	ReducerMean   Reducer = "mean"
	ReducerMedian Reducer = "median"
	ReducerMin    Reducer = "min"
	ReducerMax    Reducer = "max"
)

// String returns the underlying string value.
func (r Reducer) String() string {
	return string(r)
}

// Collection identifies a source image collection on the remote service.
type Collection string

const (
	CollectionLandsat8SR   Collection = "LANDSAT/LC08/C02/T1_L2"
	CollectionLandsat9SR   Collection = "LANDSAT/LC09/C02/T1_L2"
	CollectionSentinel2SR  Collection = "COPERNICUS/S2_SR_HARMONIZED"
	CollectionSentinel2TOA Collection = "COPERNICUS/S2_HARMONIZED"
)

// String returns the underlying string value.
func (c Collection) String() string {
	return string(c)
}
