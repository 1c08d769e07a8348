package services

import (
	"context"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// proxyClass returns the placeholder class of an unresolved cross-document
// reference. Placeholders live below ProxyEClass and keep their URI as a
// comment so a later pass can reconcile them.
func (t *Transformer) proxyClass(ctx context.Context, uri string) (domain.ClassRef, error) {
	if ref, ok := t.proxies[uri]; ok {
		return ref, nil
	}
	proxyRoot, err := t.store.CreateOrGetClass(ctx, ProxyRootClassName, t.ns)
	if err != nil {
		return domain.ClassRef{}, err
	}
	if err := t.store.AddSuperClass(ctx, proxyRoot, t.entityRoot); err != nil {
		return domain.ClassRef{}, err
	}

	ref, err := t.store.CreateOrGetClass(ctx, CleanName(domain.ProxyName(uri)), t.ns)
	if err != nil {
		return domain.ClassRef{}, err
	}
	if err := t.store.AddSuperClass(ctx, ref, proxyRoot); err != nil {
		return domain.ClassRef{}, err
	}
	if err := t.store.AddComment(ctx, ref, uri, TagNamespace); err != nil {
		return domain.ClassRef{}, err
	}

	t.proxies[uri] = ref
	t.report.Proxies++
	logger.Debug("Unresolved proxy %s", uri)
	t.diagnose(domain.DiagnosticProxy, "unresolved reference %s", uri)
	return ref, nil
}

// ensureClass returns the ontology class of cls, lowering its package on
// first use so instances can be typed before any explicit meta-model run.
func (t *Transformer) ensureClass(ctx context.Context, cls *domain.Class) (domain.ClassRef, error) {
	if cls.IsProxy() {
		return t.proxyClass(ctx, cls.Proxy)
	}
	ref, exists, err := t.store.LookupClass(ctx, cls.Name, t.ns)
	if err != nil {
		return domain.ClassRef{}, err
	}
	if exists && t.classes[cls] {
		return ref, nil
	}
	if cls.Package != nil {
		if err := t.lowerPackage(ctx, cls.Package.Root()); err != nil {
			return domain.ClassRef{}, err
		}
	}
	if !t.classes[cls] {
		if err := t.lowerClass(ctx, cls); err != nil {
			return domain.ClassRef{}, err
		}
	}
	return t.store.CreateOrGetClass(ctx, cls.Name, t.ns)
}
