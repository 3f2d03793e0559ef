package fgl

// OpenGL enum values used by this package. They match the numeric values in
// the GL 3.3 core headers, so a Driver backed by real bindings can pass them
// through untouched.
const (
	None uint32 = 0
	True int32  = 1

	ArrayBuffer uint32 = 0x8892

	StreamDraw  uint32 = 0x88E0
	StreamRead  uint32 = 0x88E1
	StreamCopy  uint32 = 0x88E2
	StaticDraw  uint32 = 0x88E4
	StaticRead  uint32 = 0x88E5
	StaticCopy  uint32 = 0x88E6
	DynamicDraw uint32 = 0x88E8
	DynamicRead uint32 = 0x88E9
	DynamicCopy uint32 = 0x88EA

	Byte          uint32 = 0x1400
	UnsignedByte  uint32 = 0x1401
	Short         uint32 = 0x1402
	UnsignedShort uint32 = 0x1403
	Int           uint32 = 0x1404
	UnsignedInt   uint32 = 0x1405
	Float         uint32 = 0x1406

	Texture2DTarget  uint32 = 0x0DE1
	Texture0         uint32 = 0x84C0
	TextureMagFilter uint32 = 0x2800
	TextureMinFilter uint32 = 0x2801
	TextureWrapS     uint32 = 0x2802
	TextureWrapT     uint32 = 0x2803
	ClampToEdge      int32  = 0x812F

	GLNearest            int32 = 0x2600
	GLLinear             int32 = 0x2601
	NearestMipmapNearest int32 = 0x2700
	LinearMipmapNearest  int32 = 0x2701
	NearestMipmapLinear  int32 = 0x2702
	LinearMipmapLinear   int32 = 0x2703

	RGB     uint32 = 0x1907
	RGBA    uint32 = 0x1908
	BGR     uint32 = 0x80E0
	BGRA    uint32 = 0x80E1
	GLRGB8  uint32 = 0x8051
	GLRGBA8 uint32 = 0x8058

	DepthComponent16 uint32 = 0x81A5
	Depth24Stencil8  uint32 = 0x88F0

	FramebufferTarget  uint32 = 0x8D40
	RenderbufferTarget uint32 = 0x8D41

	ColorAttachment0       uint32 = 0x8CE0
	DepthAttachment        uint32 = 0x8D00
	StencilAttachment      uint32 = 0x8D20
	DepthStencilAttachment uint32 = 0x821A

	FramebufferComplete                    uint32 = 0x8CD5
	FramebufferIncompleteAttachment        uint32 = 0x8CD6
	FramebufferIncompleteMissingAttachment uint32 = 0x8CD7
	FramebufferIncompleteDrawBuffer        uint32 = 0x8CDB
	FramebufferIncompleteReadBuffer        uint32 = 0x8CDC
	FramebufferUnsupported                 uint32 = 0x8CDD
	FramebufferIncompleteMultisample       uint32 = 0x8D56
	FramebufferIncompleteLayerTargets      uint32 = 0x8DA8
	FramebufferUndefined                   uint32 = 0x8219

	Color uint32 = 0x1800
	Depth uint32 = 0x1801

	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31
	CompileStatus  uint32 = 0x8B81
	LinkStatus     uint32 = 0x8B82
	InfoLogLength  uint32 = 0x8B84

	Triangles uint32 = 0x0004

	NoError                     uint32 = 0
	InvalidEnum                 uint32 = 0x0500
	InvalidValue                uint32 = 0x0501
	InvalidOperation            uint32 = 0x0502
	OutOfMemory                 uint32 = 0x0505
	InvalidFramebufferOperation uint32 = 0x0506

	DepthBufferBit   uint32 = 0x00000100
	StencilBufferBit uint32 = 0x00000400
	ColorBufferBit   uint32 = 0x00004000

	Blend            uint32 = 0x0BE2
	DepthTest        uint32 = 0x0B71
	SrcAlpha         uint32 = 0x0302
	OneMinusSrcAlpha uint32 = 0x0303
)

// Quad is a unit square as two counter-clockwise triangles, two floats per vertex.
var Quad = [12]float32{
	0, 0,
	1, 0,
	1, 1,
	0, 0,
	1, 1,
	0, 1,
}

// QuadVertices is the vertex count of Quad.
const QuadVertices = 6
