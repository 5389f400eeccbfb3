package glass

// Handle identifies an object owned by the renderer. The zero Handle means
// "no visual"; the ball keeps simulating without one.
type Handle uint64

// GeometryKind distinguishes the meshes the simulation asks for.
type GeometryKind string

const (
	GeometryBall   GeometryKind = "ball"
	GeometryReveal GeometryKind = "reveal"
)

// Geometry describes a sphere mesh.
type Geometry struct {
	Kind   GeometryKind `json:"kind"`
	Radius float64      `json:"radius"`
}

// Texture is a renderer-agnostic reference to a generated image.
type Texture struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Material is a sphere surface. A zero Texture renders a blank ball.
type Material struct {
	Texture Texture `json:"texture"`
	Color   uint32  `json:"color"`
}

// Renderer is the rendering collaborator.
type Renderer interface {
	Create(g Geometry, m Material) (Handle, error)
	SetPosition(h Handle, x, y, z float64)
	SetRotation(h Handle, x, y, z float64)
	SetScale(h Handle, s float64)
	Remove(h Handle)
	RenderFrame()
}

// TextureSource is the texture-generation collaborator.
type TextureSource interface {
	TextureForNumber(n int) (Texture, error)
	TextureForWinLabel() (Texture, error)
}

// PopupPresenter displays the popup at the end of a win sequence.
type PopupPresenter interface {
	PresentPopup(popupID string, amount *float64, currencySymbol string)
}

type nopRenderer struct{}

func (nopRenderer) Create(Geometry, Material) (Handle, error) { return 0, nil }
func (nopRenderer) SetPosition(Handle, float64, float64, float64) {}
func (nopRenderer) SetRotation(Handle, float64, float64, float64) {}
func (nopRenderer) SetScale(Handle, float64) {}
func (nopRenderer) Remove(Handle) {}
func (nopRenderer) RenderFrame() {}

type nopTextures struct{}

func (nopTextures) TextureForNumber(int) (Texture, error) { return Texture{}, nil }
func (nopTextures) TextureForWinLabel() (Texture, error) { return Texture{}, nil }

type nopPresenter struct{}

func (nopPresenter) PresentPopup(string, *float64, string) {}
