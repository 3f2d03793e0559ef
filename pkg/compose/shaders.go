package compose

const VertexShader = `#version 330 core
layout (location = 0) in vec2 quad;

uniform mat4 projection;
uniform vec2 offset;
uniform vec2 dimensions;

out vec2 uv;

void main() {
    uv = quad;
    gl_Position = projection * vec4(offset + quad * dimensions, 0.0, 1.0);
}
`

const FragmentShader = `#version 330 core
in vec2 uv;

uniform sampler2D tex;

out vec4 colour;

void main() {
    colour = texture(tex, uv);
}
`
