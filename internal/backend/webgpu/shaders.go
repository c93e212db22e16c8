//go:build windows

package webgpu

// philoxShader is the Philox4x32-10 kernel. One invocation computes one
// block of four words; element i of the call lives in block i/4, word i%4.
//
// Modes: 0 raw uint32 words, 1 uniform float32 in [a, b), 2 normal float32
// with mean a and standard deviation b.
const philoxShader = `
@group(0) @binding(0) var<storage, read_write> words: array<u32>;

struct Params {
    n: u32,
    mode: u32,
    key0: u32,
    key1: u32,
    ctr_lo: u32,
    ctr_hi: u32,
    base: u32,
    halved: u32,
    a: f32,
    b: f32,
    _pad1: u32,
    _pad2: u32,
}
@group(0) @binding(1) var<uniform> params: Params;

const M0: u32 = 0xD2511F53u;
const M1: u32 = 0xCD9E8D57u;
const W0: u32 = 0x9E3779B9u;
const W1: u32 = 0xBB67AE85u;
const TWO_PI: f32 = 6.283185307179586;
const INV_2_24: f32 = 5.9604644775390625e-8;
const INV_2_23: f32 = 1.1920928955078125e-7;

// mulhilo returns (hi, lo) of the 64-bit product a*b.
fn mulhilo(a: u32, b: u32) -> vec2<u32> {
    let a_lo = a & 0xFFFFu;
    let a_hi = a >> 16u;
    let b_lo = b & 0xFFFFu;
    let b_hi = b >> 16u;

    let ll = a_lo * b_lo;
    let lh = a_lo * b_hi;
    let hl = a_hi * b_lo;
    let hh = a_hi * b_hi;

    let mid = (ll >> 16u) + (lh & 0xFFFFu) + (hl & 0xFFFFu);
    let lo = (ll & 0xFFFFu) | (mid << 16u);
    let hi = hh + (lh >> 16u) + (hl >> 16u) + (mid >> 16u);
    return vec2<u32>(hi, lo);
}

fn philox(ctr_in: vec4<u32>, key_in: vec2<u32>) -> vec4<u32> {
    var c = ctr_in;
    var k = key_in;
    for (var i = 0u; i < 10u; i = i + 1u) {
        if (i > 0u) {
            k = k + vec2<u32>(W0, W1);
        }
        let p0 = mulhilo(M0, c.x);
        let p1 = mulhilo(M1, c.z);
        c = vec4<u32>(p1.x ^ c.y ^ k.x, p1.y, p0.x ^ c.w ^ k.y, p0.y);
    }
    return c;
}

fn unit(x: u32) -> f32 {
    return f32(x >> 8u) * INV_2_24;
}

// open_unit keeps 23 bits so the half step stays below 1.
fn open_unit(x: u32) -> f32 {
    return (f32(x >> 9u) + 0.5) * INV_2_23;
}

// next_below returns the largest float32 smaller than x.
fn next_below(x: f32) -> f32 {
    let bits = bitcast<u32>(x);
    if (x > 0.0) {
        return bitcast<f32>(bits - 1u);
    }
    if (x == 0.0) {
        return bitcast<f32>(0x80000001u);
    }
    return bitcast<f32>(bits + 1u);
}

fn scale_uniform(u: f32) -> f32 {
    let lower = params.a;
    let upper = params.b;
    var v: f32;
    if (params.halved == 0u) {
        v = lower + u * (upper - lower);
    } else {
        // upper - lower overflows f32.
        v = 2.0 * (lower * 0.5 + u * (upper * 0.5 - lower * 0.5));
    }
    if (v >= upper && upper > lower) {
        v = next_below(upper);
    }
    return max(v, lower);
}

fn box_muller(u1: f32, u2: f32) -> vec2<f32> {
    let r = sqrt(-2.0 * log(u1));
    let t = TWO_PI * u2;
    return vec2<f32>(r * cos(t), r * sin(t));
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = params.base + global_id.x;
    let first = idx * 4u;
    if (first >= params.n) {
        return;
    }

    let lo = params.ctr_lo + idx;
    let carry = select(0u, 1u, lo < idx);
    let w = philox(vec4<u32>(lo, params.ctr_hi + carry, 0u, 0u), vec2<u32>(params.key0, params.key1));

    var v: vec4<u32>;
    switch (params.mode) {
        case 0u: {
            v = w;
        }
        case 1u: {
            v = vec4<u32>(
                bitcast<u32>(scale_uniform(unit(w.x))),
                bitcast<u32>(scale_uniform(unit(w.y))),
                bitcast<u32>(scale_uniform(unit(w.z))),
                bitcast<u32>(scale_uniform(unit(w.w))),
            );
        }
        default: {
            let z01 = box_muller(open_unit(w.x), unit(w.y));
            let z23 = box_muller(open_unit(w.z), unit(w.w));
            let z = params.a + params.b * vec4<f32>(z01.x, z01.y, z23.x, z23.y);
            v = bitcast<vec4<u32>>(z);
        }
    }

    for (var j = 0u; j < 4u; j = j + 1u) {
        if (first + j < params.n) {
            words[first + j] = v[j];
        }
    }
}
`
