// Package catalog holds the network data of the Limoges deployment: termini,
// deviations and special line numbers. It has no behavior besides lookups.
package catalog

import (
	"sort"

	"github.com/samber/lo"

	"github.com/anggasct/rtsignal"
)

// Termini
const (
	RteDeLyon               rtsignal.Terminus = "Rte_de_Lyon"
	PteDeLoyat              rtsignal.Terminus = "Pte_de_Loyat"
	PCurie                  rtsignal.Terminus = "P_Curie"
	PoleLaBastide           rtsignal.Terminus = "Pole_La_Bastide"
	Montjovis               rtsignal.Terminus = "Montjovis"
	PoleStLazare            rtsignal.Terminus = "Pole_St_Lazare"
	LaCornue                rtsignal.Terminus = "La_Cornue"
	LesCourrieres           rtsignal.Terminus = "Les_Courrieres"
	JGagnant                rtsignal.Terminus = "J_Gagnant"
	MalJuin                 rtsignal.Terminus = "Mal_Juin"
	MalJoffre               rtsignal.Terminus = "Mal_Joffre"
	LyceeDautry             rtsignal.Terminus = "Lycee_Dautry"
	LePalaisVertVallon      rtsignal.Terminus = "Le_Palais_Vert_Vallon"
	CiteRDautry             rtsignal.Terminus = "Cite_R_Dautry"
	LPStExupery             rtsignal.Terminus = "L_P_St_Exupery"
	LePalaisBeauregard      rtsignal.Terminus = "Le_Palais_Beauregard"
	LePalaisPuyNeige        rtsignal.Terminus = "Le_Palais_Puy_Neige"
	LSerpollet              rtsignal.Terminus = "L_Serpollet"
	ChLeGendre              rtsignal.Terminus = "Ch_Le_Gendre"
	IsleLesChamps           rtsignal.Terminus = "Isle_Les_Champs"
	PanazolManderesse       rtsignal.Terminus = "Panazol_Manderesse"
	LeTheil                 rtsignal.Terminus = "Le_Theil"
	CollegeRonsard          rtsignal.Terminus = "College_Ronsard"
	LyceeRenoir             rtsignal.Terminus = "Lycee_Renoir"
	BoisseuilZALaPlaine     rtsignal.Terminus = "Boisseuil_Z_A_La_Plaine"
	PlWChurchill            rtsignal.Terminus = "Pl_W_Churchill"
	VerneuilPennevayre      rtsignal.Terminus = "Verneuil_Pennevayre"
	Beaune                  rtsignal.Terminus = "Beaune"
	BonnacLeMasbatin        rtsignal.Terminus = "Bonnac_Le_Masbatin"
	PoleFougeras            rtsignal.Terminus = "Pole_Fougeras"
	Fontgeaudrant           rtsignal.Terminus = "Fontgeaudrant"
	MasBlanc                rtsignal.Terminus = "Mas_Blanc"
	PeyrilacBaneche         rtsignal.Terminus = "Peyrilac_Baneche"
	LimogesCiel             rtsignal.Terminus = "Limoges_Ciel"
	VerneuilLesVaseix       rtsignal.Terminus = "Verneuil_Les_Vaseix"
	RilhacRanconBramaud     rtsignal.Terminus = "Rilhac_Rancon_Bramaud"
	RilhacRanconCassepierre rtsignal.Terminus = "Rilhac_Rancon_Cassepierre_Ecole"
	EyjeauxBourg            rtsignal.Terminus = "Eyjeaux_Bourg"
	FeytiatMasGauthier      rtsignal.Terminus = "Feytiat_Mas_Gauthier"
	StJustGrateloube        rtsignal.Terminus = "St_Just_Grateloube"
	FeytiatPleinBois        rtsignal.Terminus = "Feytiat_Plein_Bois"
	CondatVersanas          rtsignal.Terminus = "Condat_Versanas"
	CouzeixLaCroixDAnglard  rtsignal.Terminus = "Couzeix_La_Croix_d_Anglard"
	CouzeixAnglard          rtsignal.Terminus = "Couzeix_Anglard"
	ChaptelatLeTheillol     rtsignal.Terminus = "Chaptelat_Le_Theillol"
	MasGigou                rtsignal.Terminus = "Mas_Gigou"
	SolignacBourg           rtsignal.Terminus = "Solignac_Bourg"
	StJustFontanguly        rtsignal.Terminus = "St_Just_Fontanguly"
	PanazolMairie           rtsignal.Terminus = "Panazol_Mairie"
	FeytiatPlDeLEurope      rtsignal.Terminus = "Feytiat_Pl_de_l_Europe"
	ZINord3                 rtsignal.Terminus = "Z_I_Nord_3"
	VeyracBourg             rtsignal.Terminus = "Veyrac_Bourg"
	PuyPonchet              rtsignal.Terminus = "Puy_Ponchet"
	Depot                   rtsignal.Terminus = "DEPOT"
)

// Deviations
const (
	DevLPJMonnet      rtsignal.Deviation = "L_P_J_Monnet"
	DevENSIL          rtsignal.Deviation = "ENSIL"
	DevPMorand        rtsignal.Deviation = "P_Morand"
	DevJMontalat      rtsignal.Deviation = "J_Montalat"
	DevVieuxCrezin    rtsignal.Deviation = "Vieux_Crezin"
	DevVillagory      rtsignal.Deviation = "Villagory"
	DevLeSablard      rtsignal.Deviation = "Le_Sablard"
	DevLesChenesVerts rtsignal.Deviation = "Les_Chenes_Verts"
	DevCoyol          rtsignal.Deviation = "Coyol"
	DevOcealim        rtsignal.Deviation = "Ocealim"
	DevLBleriot       rtsignal.Deviation = "L_Bleriot"
	DevCouzeixAnglard rtsignal.Deviation = "Couzeix_Anglard"
)

// SpecialLines maps the named lines to their route number
var SpecialLines = map[string]uint16{
	"d1":  66,
	"d4":  67,
	"d5":  68,
	"d8":  69,
	"d10": 70,
	"EX1": 71,
}

// routeTermini lists the routes serving each terminus
var routeTermini = map[rtsignal.Terminus][]uint16{
	RteDeLyon:               {1, 61, 66},
	PteDeLoyat:              {1, 14, 66},
	PCurie:                  {2},
	PoleLaBastide:           {2, 6},
	Montjovis:               {4, 39},
	PoleStLazare:            {4, 15, 24, 62, 67},
	LaCornue:                {5, 68},
	LesCourrieres:           {5, 16},
	JGagnant:                {5},
	MalJuin:                 {6, 67},
	MalJoffre:               {8, 22, 69},
	LyceeDautry:             {8},
	LePalaisVertVallon:      {8},
	CiteRDautry:             {8, 68},
	LPStExupery:             {8},
	LePalaisBeauregard:      {8},
	LePalaisPuyNeige:        {8},
	LSerpollet:              {10, 21, 70},
	ChLeGendre:              {10, 63, 21, 70},
	IsleLesChamps:           {12, 63},
	PanazolManderesse:       {12, 61},
	LeTheil:                 {14},
	CollegeRonsard:          {14},
	LyceeRenoir:             {14},
	BoisseuilZALaPlaine:     {15},
	PlWChurchill:            {16, 17, 18, 20, 24, 25, 26, 31, 32, 34, 35, 36, 37, 38, 41, 44, 46, 71},
	VerneuilPennevayre:      {16},
	Beaune:                  {18},
	BonnacLeMasbatin:        {18},
	PoleFougeras:            {18, 20, 29, 30, 65},
	Fontgeaudrant:           {24},
	MasBlanc:                {25},
	PeyrilacBaneche:         {26},
	LimogesCiel:             {28},
	VerneuilLesVaseix:       {28},
	RilhacRanconBramaud:     {29},
	RilhacRanconCassepierre: {30},
	EyjeauxBourg:            {31},
	FeytiatMasGauthier:      {32},
	StJustGrateloube:        {34},
	FeytiatPleinBois:        {35},
	CondatVersanas:          {36},
	CouzeixLaCroixDAnglard:  {37},
	CouzeixAnglard:          {38},
	ChaptelatLeTheillol:     {39},
	MasGigou:                {41},
	SolignacBourg:           {44},
	StJustFontanguly:        {46},
	PanazolMairie:           {61},
	FeytiatPlDeLEurope:      {62},
	ZINord3:                 {65},
	VeyracBourg:             {71},
	PuyPonchet:              {22, 69},
	Depot:                   nil,
}

// Termini returns every terminus sorted by name
func Termini() []rtsignal.Terminus {
	termini := lo.Keys(routeTermini)
	sort.Slice(termini, func(i, j int) bool { return termini[i] < termini[j] })
	return termini
}

// Deviations returns every deviation of the network
func Deviations() []rtsignal.Deviation {
	return []rtsignal.Deviation{
		DevLPJMonnet, DevENSIL, DevPMorand, DevJMontalat, DevVieuxCrezin, DevVillagory,
		DevLeSablard, DevLesChenesVerts, DevCoyol, DevOcealim, DevLBleriot, DevCouzeixAnglard,
	}
}

// Routes returns every route number serving at least one terminus, sorted
func Routes() []uint16 {
	routes := lo.Uniq(lo.Flatten(lo.Values(routeTermini)))
	sort.Slice(routes, func(i, j int) bool { return routes[i] < routes[j] })
	return routes
}

// Serves reports whether route has t as one of its termini. DEPOT is served by every route.
func Serves(route uint16, t rtsignal.Terminus) bool {
	if t == Depot {
		return true
	}
	return lo.Contains(routeTermini[t], route)
}

// IsTerminus reports whether t belongs to the network
func IsTerminus(t rtsignal.Terminus) bool {
	_, ok := routeTermini[t]
	return ok
}
