package hex

// Default GLSL sources. Fragment output 0 is the visible colour; output 1 is
// the pick buffer, where the grid encodes the cell index and tokens leave the
// value underneath untouched.

const GridVertexShader = `#version 330 core
layout (location = 0) in vec2 quad;
layout (location = 1) in vec2 offset;
layout (location = 2) in float tile;

uniform mat4 projection;
uniform vec2 size;
uniform float ntiles;

out vec2 uv;
flat out float index;
flat out int cell;

void main() {
    index = tile;
    cell = gl_InstanceID / 6;
    uv = vec2((quad.x + max(tile, 0.0)) / ntiles, 1.0 - quad.y);
    gl_Position = projection * vec4(offset + quad * size, 0.0, 1.0);
}
`

const GridFragmentShader = `#version 330 core
in vec2 uv;
flat in float index;
flat in int cell;

uniform sampler2D atlas;

layout (location = 0) out vec4 colour;
layout (location = 1) out vec4 pick;

void main() {
    if (index < 0.0) {
        discard;
    }
    vec4 c = texture(atlas, uv);
    if (c.a < 0.01) {
        discard;
    }
    colour = c;
    pick = vec4(float(cell & 255) / 255.0, float((cell >> 8) & 255) / 255.0, 1.0, 1.0);
}
`

const TokenVertexShader = `#version 330 core
layout (location = 0) in vec2 quad;
layout (location = 1) in vec2 offset;

uniform mat4 projection;
uniform vec2 dimensions;

out vec2 uv;
out vec2 local;

void main() {
    local = (quad - 0.5) * dimensions;
    uv = vec2(quad.x, 1.0 - quad.y);
    gl_Position = projection * vec4(offset + local, 0.0, 1.0);
}
`

const TokenFragmentShader = `#version 330 core
in vec2 uv;
in vec2 local;

uniform sampler2D token;
uniform int mask;
uniform float tile;
uniform int flatUp;

layout (location = 0) out vec4 colour;
layout (location = 1) out vec4 pick;

// inside reports whether p lies in the hex of height tile centred on the
// token.
bool inside(vec2 p) {
    p = abs(flatUp == 1 ? p.yx : p);
    float inradius = tile * 0.5 * 0.8660254;
    return max(p.x, dot(p, vec2(0.5, 0.8660254))) <= inradius;
}

void main() {
    if (mask == 1 && inside(local)) {
        discard;
    }
    if (mask == 2 && !inside(local)) {
        discard;
    }
    vec4 c = texture(token, uv);
    if (c.a < 0.01) {
        discard;
    }
    colour = c;
    pick = vec4(0.0);
}
`
