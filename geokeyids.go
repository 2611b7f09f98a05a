package cogtiff

// GeoTIFF GeoKey ids recognized inside a GeoKeyDirectory. This is a
// representative subset of the full registry, large enough to resolve
// geolocation (model type, raster type, citation, CS codes, units).
const (
	GeoKeyGTModelType        uint16 = 1024
	GeoKeyGTRasterType       uint16 = 1025
	GeoKeyGTCitation         uint16 = 1026
	GeoKeyGeographicType     uint16 = 2048
	GeoKeyGeogCitation       uint16 = 2049
	GeoKeyGeogAngularUnits   uint16 = 2054
	GeoKeyProjectedCSType    uint16 = 3072
	GeoKeyPCSCitation        uint16 = 3073
	GeoKeyProjLinearUnits    uint16 = 3076
	GeoKeyVerticalCSType     uint16 = 4096
	GeoKeyVerticalCitation   uint16 = 4097
	GeoKeyVerticalUnits      uint16 = 4099
)

// GeoKeyUndefined is the GeoTIFF sentinel value meaning "code not set".
const GeoKeyUndefined = 32767
