package gpu

// fullscreenVS is shared by every pipeline family: three vertices covering
// the whole viewport, no vertex buffer, uv derived from clip position.
const fullscreenVS = `
struct VSOut {
  @builtin(position) pos: vec4<f32>,
  @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VSOut {
  var p = array<vec2<f32>, 3>(
    vec2<f32>(-1.0, -1.0),
    vec2<f32>( 3.0, -1.0),
    vec2<f32>(-1.0,  3.0),
  );
  var out: VSOut;
  out.pos = vec4<f32>(p[idx], 0.0, 1.0);
  out.uv = vec2<f32>((p[idx].x + 1.0) * 0.5, 1.0 - (p[idx].y + 1.0) * 0.5);
  return out;
}
`

// scaleFS samples src at the full target extent with a linear, edge-clamped
// sampler (spec.md 4.2 scale pipeline).
const scaleFS = `
@group(0) @binding(0) var src_tex: texture_2d<f32>;
@group(0) @binding(1) var src_sampler: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
  return textureSample(src_tex, src_sampler, uv);
}
`

// shaderFS implements the five CPU-faithful procedural kinds (plasma,
// waves, gradient, starfield, matrix) plus the neutral-gradient fallback
// used for raymarching/tunnel (no CPU implementation either, spec.md 4.5),
// selected by kind_id in the uniform block (spec.md 4.2's shader uniform).
const shaderFS = `
struct ShaderUniform {
  time: f32,
  width: f32,
  height: f32,
  speed: f32,
  color1: vec3<f32>,
  scale: f32,
  color2: vec3<f32>,
  intensity: f32,
  color3: vec3<f32>,
  count: f32,
  kind_id: f32,
  _pad0: f32,
  _pad1: f32,
  _pad2: f32,
};

@group(0) @binding(0) var<uniform> u: ShaderUniform;

fn mix3(mix_v: f32, c1: vec3<f32>, c2: vec3<f32>, c3: vec3<f32>) -> vec3<f32> {
  if (mix_v < 0.5) {
    return mix(c1, c2, mix_v * 2.0);
  }
  return mix(c2, c3, (mix_v - 0.5) * 2.0);
}

fn plasma(uv: vec2<f32>) -> vec3<f32> {
  let fx = uv.x * u.width * 0.05 * u.scale;
  let fy = uv.y * u.height * 0.05 * u.scale;
  let v = sin(fx + u.time) + sin(fy + u.time) + sin(fx + fy + u.time) + sin(sqrt(fx * fx + fy * fy) + u.time);
  return mix3((v / 4.0 + 1.0) / 2.0, u.color1, u.color2, u.color3);
}

fn waves(uv: vec2<f32>) -> vec3<f32> {
  let wave = sin(uv.y * u.height * 0.1 * u.scale + u.time * 2.0) * 0.5;
  let m = (sin(uv.x * u.width * 0.02 * u.scale + wave + u.time) + 1.0) / 2.0 * u.intensity;
  return mix(u.color1, u.color2, clamp(m, 0.0, 1.0));
}

fn gradient(uv: vec2<f32>) -> vec3<f32> {
  return mix(u.color1, u.color2, clamp(uv.y, 0.0, 1.0));
}

fn starfield(uv: vec2<f32>) -> vec3<f32> {
  let cx = 0.5;
  let cy = 0.5;
  let dx = uv.x - cx;
  let dy = uv.y - cy;
  let angle = atan2(dy, dx);
  let dist = sqrt(dx * dx + dy * dy) * 2.0;
  let seed = floor(dist * max(1.0, u.count) * 37.0);
  let twinkle = fract(sin(seed * 12.9898 + u.time) * 43758.5453);
  if (twinkle > 0.985) {
    return vec3<f32>(1.0, 1.0, 1.0);
  }
  return vec3<f32>(0.0, 0.0, 0.0);
}

fn matrix_rain(uv: vec2<f32>) -> vec3<f32> {
  let col_width = max(4.0, 16.0 / max(0.1, u.scale)) / u.width;
  let col = floor(uv.x / col_width);
  let phase = fract(u.time * 2.0 + col * 0.37);
  let head = phase * 2.0;
  let d = head - uv.y;
  if (d < 0.0 || d > 0.5) {
    return vec3<f32>(0.0, 0.0, 0.0);
  }
  let fade = 1.0 - d / 0.5;
  return u.color1 * fade;
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
  var rgb: vec3<f32>;
  let k = i32(u.kind_id);
  if (k == 0) {
    rgb = plasma(uv);
  } else if (k == 1) {
    rgb = waves(uv);
  } else if (k == 3) {
    rgb = starfield(uv);
  } else if (k == 4) {
    rgb = matrix_rain(uv);
  } else {
    rgb = gradient(uv);
  }
  return vec4<f32>(rgb, 1.0);
}
`

// overlayFS applies one of the seven post-process effects (spec.md 4.6) to
// a base texture, effect_id ordered identically to internal/overlay.Effect.
const overlayFS = `
struct OverlayUniform {
  time: f32,
  width: f32,
  height: f32,
  effect_id: f32,
  p1: f32,
  p2: f32,
  p3: f32,
  p4: f32,
  color: vec3<f32>,
  _pad0: f32,
};

@group(0) @binding(0) var base_tex: texture_2d<f32>;
@group(0) @binding(1) var base_sampler: sampler;
@group(0) @binding(2) var<uniform> u: OverlayUniform;

fn rand(co: vec2<f32>) -> f32 {
  return fract(sin(dot(co, vec2<f32>(12.9898, 78.233))) * 43758.5453);
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
  var c = textureSample(base_tex, base_sampler, uv);
  let id = i32(u.effect_id);

  if (id == 0) {
    // Vignette: p1 = strength.
    let d = distance(uv, vec2<f32>(0.5, 0.5)) * 1.4142135;
    let v = 1.0 - clamp(d * u.p1, 0.0, 1.0);
    c = vec4<f32>(c.rgb * v, c.a);
  } else if (id == 1) {
    // Scanlines: p1 = intensity, p2 = line width.
    let scan = (sin(uv.y * u.height / max(0.01, u.p2)) * 0.5 + 0.5) * u.p1;
    c = vec4<f32>(c.rgb * (1.0 - scan), c.a);
  } else if (id == 2) {
    // Film grain: p1 = intensity.
    let n = (rand(uv * vec2<f32>(u.width, u.height) + u.time) - 0.5) * u.p1;
    c = vec4<f32>(clamp(c.rgb + vec3<f32>(n), vec3<f32>(0.0), vec3<f32>(1.0)), c.a);
  } else if (id == 3) {
    // Chromatic aberration: p1 = pixel offset.
    let off = vec2<f32>(u.p1 / u.width, 0.0);
    let r = textureSample(base_tex, base_sampler, uv + off).r;
    let b = textureSample(base_tex, base_sampler, uv - off).b;
    c = vec4<f32>(r, c.g, b, c.a);
  } else if (id == 4) {
    // CRT: scanlines + vignette + edge colour shift, p1 = intensity.
    let scan = (sin(uv.y * u.height / 2.0) * 0.5 + 0.5) * u.p1;
    let d = distance(uv, vec2<f32>(0.5, 0.5)) * 1.4142135;
    let v = 1.0 - clamp(d * 0.3, 0.0, 1.0);
    c = vec4<f32>(c.rgb * (1.0 - scan) * v, c.a);
  } else if (id == 5) {
    // Pixelate: p1 = block size in pixels.
    let block = max(1.0, u.p1);
    let px = floor(uv * vec2<f32>(u.width, u.height) / block) * block + block * 0.5;
    c = textureSample(base_tex, base_sampler, px / vec2<f32>(u.width, u.height));
  } else if (id == 6) {
    // Tint: color = target rgb, p1 = strength.
    c = vec4<f32>(mix(c.rgb, c.rgb * u.color, u.p1), c.a);
  }
  return c;
}
`

// blendFS implements the GPU-supported subset of spec.md 4.7's transitions
// (fade, the four axis wipes, center, outer); wipe-angle and random are
// never dispatched here, left to the CPU path (spec.md 4.2).
const blendFS = `
struct BlendUniform {
  progress: f32,
  transition_id: f32,
  width: f32,
  height: f32,
};

@group(0) @binding(0) var old_tex: texture_2d<f32>;
@group(0) @binding(1) var new_tex: texture_2d<f32>;
@group(0) @binding(2) var blend_sampler: sampler;
@group(0) @binding(3) var<uniform> u: BlendUniform;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
  let old_c = textureSample(old_tex, blend_sampler, uv);
  let new_c = textureSample(new_tex, blend_sampler, uv);
  let id = i32(u.transition_id);
  var show_new = false;

  if (id == 0) {
    return mix(old_c, new_c, u.progress);
  } else if (id == 1) {
    show_new = uv.x < u.progress;
  } else if (id == 2) {
    show_new = uv.x >= (1.0 - u.progress);
  } else if (id == 3) {
    show_new = uv.y < u.progress;
  } else if (id == 4) {
    show_new = uv.y >= (1.0 - u.progress);
  } else if (id == 5) {
    let d = distance(uv, vec2<f32>(0.5, 0.5)) / 0.70710678;
    show_new = d < u.progress;
  } else if (id == 6) {
    let d = distance(uv, vec2<f32>(0.5, 0.5)) / 0.70710678;
    show_new = d > (1.0 - u.progress);
  }

  if (show_new) {
    return new_c;
  }
  return old_c;
}
`
